// Package config provides configuration parsing for widgetd.
//
// The configuration lives in widgetd.json, widgetd.yaml (or .yml) or
// widgetd.toml. The format is chosen by the file extension; every format
// shares the same schema.
//
// # Configuration File Structure
//
//	loop:
//	  interval: 16ms
//	inspector:
//	  enabled: true
//	  host: localhost
//	  port: 7070
//	  history: 120
//	metrics:
//	  enabled: true
//	  namespace: widgetkit
//	tracing:
//	  enabled: false
//	  tracerName: widgetkit
//	log:
//	  level: info
//	  format: text
//	demo:
//	  items: 4
//	  sections: 6
//	  seed: 1
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.InspectorAddress())
package config
