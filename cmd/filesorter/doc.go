// Command filesorter moves the files of a folder into subfolders named after
// their extension or category.
//
// Run without arguments it opens the terminal interface; given a folder, or
// through the sort subcommand, it scans, asks for confirmation, moves and
// prints a summary. Further subcommands inventory a folder, watch it for new
// files, list and undo past runs, and manage the config file.
package main
