// Package config provides configuration parsing for routemark sites.
//
// The configuration is stored in routemark.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "my-site",
//	  "title": "My Site",
//	  "port": 4000,
//	  "rules": [
//	    {"pattern": "/", "doc": "/README.md"},
//	    {"pattern": "/list/:channel", "doc": "/list/:channel.md"}
//	  ],
//	  "content": {
//	    "source": "fs",
//	    "dir": "content"
//	  },
//	  "static": {
//	    "dir": "public",
//	    "prefix": "/static/"
//	  },
//	  "dev": {
//	    "port": 4000,
//	    "host": "localhost",
//	    "reload": true
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "path": "/metrics"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Dev.Port)
package config
