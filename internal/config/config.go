package config

type Config struct {
	Path            string `toml:"path"`
	Recursive       bool   `toml:"recursive"`
	UseCategories   bool   `toml:"use_categories"`
	ShowHidden      bool   `toml:"show_hidden"`
	Language        string `toml:"language"`
	Theme           string `toml:"theme"`
	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
	CategoriesFile  string `toml:"categories_file"`
	HistoryPath     string `toml:"history_path"`
	LockDir         string `toml:"lock_dir"`
	LastFolder      string `toml:"last_folder"`
	WatchDebounceMS int    `toml:"watch_debounce_ms"`
}

type fileConfig struct {
	Path            *string `toml:"path"`
	Recursive       *bool   `toml:"recursive"`
	UseCategories   *bool   `toml:"use_categories"`
	ShowHidden      *bool   `toml:"show_hidden"`
	Language        *string `toml:"language"`
	Theme           *string `toml:"theme"`
	LogLevel        *string `toml:"log_level"`
	LogFormat       *string `toml:"log_format"`
	CategoriesFile  *string `toml:"categories_file"`
	HistoryPath     *string `toml:"history_path"`
	LockDir         *string `toml:"lock_dir"`
	LastFolder      *string `toml:"last_folder"`
	WatchDebounceMS *int    `toml:"watch_debounce_ms"`
}
