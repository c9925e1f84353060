// Package app contains the core application logic. It loads model
// definitions and recorded fits, replays a fit through the registered model
// implementation, and prints rendered equations, evaluated targets or
// predicted curves, decoupled from any specific entrypoint like a CLI.
package app
