package main

// General API documentation for swaggo. Run `swag init` to generate docs.
//
// @title           adapterd API
// @version         1.0
// @description     HTTP API for adapter-routed inference against a shared base model.
//
// @BasePath  /
//
// @schemes http
