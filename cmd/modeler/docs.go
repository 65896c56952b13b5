package main

//go:generate swag init -g cmd/modeler/main.go -o docs

// @title           GTM Modeling Service API
// @version         0.1.0
// @description     Deal economics, multi-channel GTM aggregation, commission, P&L, and unit-economics modeling.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
