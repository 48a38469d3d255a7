package config

import "github.com/spf13/pflag"

// BindSortFlags registers the sort options on flags, seeded from cfg.
func BindSortFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.BoolVarP(&cfg.Recursive, "recursive", "r", cfg.Recursive, "Include files in subfolders")
	flags.BoolVar(&cfg.UseCategories, "categories", cfg.UseCategories, "Sort into categories instead of extensions")
	flags.BoolVar(&cfg.ShowHidden, "hidden", cfg.ShowHidden, "Include dotfiles and dot-folders (--hidden=false skips them)")
	flags.StringVarP(&cfg.Language, "language", "l", cfg.Language, "Folder label language (en, tr)")
}

// ApplyFlagOverrides copies the flags the user set explicitly from src onto dst.
func ApplyFlagOverrides(flags *pflag.FlagSet, src Config, dst *Config) {
	flags.Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "recursive":
			dst.Recursive = src.Recursive
		case "categories":
			dst.UseCategories = src.UseCategories
		case "hidden":
			dst.ShowHidden = src.ShowHidden
		case "language":
			dst.Language = src.Language
		case "log-level":
			dst.LogLevel = src.LogLevel
		case "log-format":
			dst.LogFormat = src.LogFormat
		}
	})
}
