// Package config loads the shopfront TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shopfront/config.toml
//  3. If the file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or blank, use defaults
//
// # TOML Format
//
//	api_base = "https://fakestoreapi.com"
//	storage = "file"              # file | sqlite | redis | memory
//	data_dir = "~/.local/share/shopfront"
//	redis_addr = "127.0.0.1:6379"
//	redis_db = 0
//	persist_items = false         # favorites are always persisted
//	save_debounce_ms = 250        # 0 uses the writer default
//	refresh_every_s = 0           # 0 disables background refresh
//	log_level = "info"
//	log_format = "text"           # text | json
//	log_file = "~/.local/share/shopfront/shopfront.log"  # "-" for stderr
//	metrics_addr = ""             # e.g. "127.0.0.1:9464"
//
// Every field is optional. Tilde expansion is applied to data_dir and
// log_file. Missing config files are not an error.
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors and out-of-range values (unknown storage
// kind, negative durations or redis_db).
package config
