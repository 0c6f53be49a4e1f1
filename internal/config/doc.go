// Package config handles configuration loading for relay-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	openai:
//	  api_key: "${OPENAI_API_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	persona:
//	  poll_interval: "60s"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"   # Chat API and web UI
//
// OpenAI backend:
//
//	openai:
//	  api_key: "${OPENAI_API_KEY}"       # Required
//	  model: "gpt-4-turbo-preview"       # Optional
//	  assistant_name: "Chatbot Assistant"
//
// Persona file:
//
//	persona:
//	  file_path: "./persona.txt"
//	  poll_interval: "60s"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
//	cfg, err := config.Load("/etc/chat-relay/gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
