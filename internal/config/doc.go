// Package config holds rulink's two kinds of configuration.
//
// # Source registry
//
// [Store] persists the named rule sources and the active source in
// <configDir>/config.json:
//
//	{
//	  "version": "1.0",
//	  "sources": {
//	    "team": {"type": "repo", "name": "team", "url": "https://github.com/acme/rules"}
//	  },
//	  "activeSource": "team"
//	}
//
// Every operation loads the file, mutates it and writes it back atomically.
// There is no locking; concurrent invocations race and the last write wins.
// A missing or unreadable file is replaced by a fresh default.
//
// # Settings
//
// [Init] and [LoadSettings] read tunables through viper: environment variables
// prefixed with RULINK_ and an optional settings.yaml next to config.json.
//
//	github_api_url: https://github.example.com/api/v3
//	registry_url: https://registry.npmjs.org
package config
