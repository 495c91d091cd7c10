package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/lockdiary/cmd"
	"github.com/illarion/lockdiary/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(ctx, cfg, os.Args[2:])
	case "write":
		runWrite(ctx, cfg, os.Args[2:])
	case "show":
		runShow(ctx, cfg, os.Args[2:])
	case "ls":
		runLs(ctx, cfg, os.Args[2:])
	case "rm":
		runRm(ctx, cfg, os.Args[2:])
	case "react":
		runReact(ctx, cfg, os.Args[2:])
	case "export":
		runExport(ctx, cfg, os.Args[2:])
	case "import":
		runImport(ctx, cfg, os.Args[2:])
	case "status":
		runStatus(ctx, cfg, os.Args[2:])
	case "compact":
		runCompact(ctx, cfg, os.Args[2:])
	case "keyring":
		runKeyring(ctx, cfg, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// parseFlags parses args with the shared config flags added to fs
func parseFlags(fs *flag.FlagSet, cfg *config.Config, args []string) {
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// optionalArg returns the single optional positional argument
func optionalArg(fs *flag.FlagSet, usage string) string {
	switch fs.NArg() {
	case 0:
		return ""
	case 1:
		return fs.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
		os.Exit(1)
		return ""
	}
}

func runInit(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	parseFlags(fs, cfg, args)

	cmd.Init(ctx, cfg)
}

func runWrite(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	title := fs.String("title", "", "Entry title")
	file := fs.String("file", "", "Read entry text from file instead of stdin")
	parseFlags(fs, cfg, args)

	// Only an explicit -title replaces the existing one
	var titleArg *string
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "title" {
			titleArg = title
		}
	})

	date := optionalArg(fs, "lockdiary write [-title T] [-file F] [date]")
	cmd.Write(ctx, cfg, date, titleArg, *file)
}

func runShow(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	parseFlags(fs, cfg, args)

	cmd.Show(ctx, cfg, optionalArg(fs, "lockdiary show [date]"))
}

func runLs(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	parseFlags(fs, cfg, args)

	cmd.Ls(ctx, cfg)
}

func runRm(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	parseFlags(fs, cfg, args)

	cmd.Remove(ctx, cfg, fs.Args())
}

func runReact(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("react", flag.ExitOnError)
	parseFlags(fs, cfg, args)

	switch fs.NArg() {
	case 1:
		cmd.React(ctx, cfg, fs.Arg(0), "")
	case 2:
		cmd.React(ctx, cfg, fs.Arg(0), fs.Arg(1))
	default:
		fmt.Fprintln(os.Stderr, "Usage: lockdiary react <date> [glyph]")
		os.Exit(1)
	}
}

func runExport(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing file")
	parseFlags(fs, cfg, args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: lockdiary export [-force] <file>")
		os.Exit(1)
	}
	cmd.Export(ctx, cfg, fs.Arg(0), *force)
}

func runImport(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	force := fs.Bool("force", false, "Replace the existing diary without asking")
	parseFlags(fs, cfg, args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: lockdiary import [-force] <file>")
		os.Exit(1)
	}
	cmd.Import(ctx, cfg, fs.Arg(0), *force)
}

func runStatus(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	parseFlags(fs, cfg, args)

	cmd.Status(ctx, cfg)
}

func runCompact(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	parseFlags(fs, cfg, args)

	cmd.Compact(ctx, cfg)
}

func runKeyring(ctx context.Context, cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lockdiary keyring <save|delete|status>")
		os.Exit(1)
	}

	fs := flag.NewFlagSet("keyring "+args[0], flag.ExitOnError)
	parseFlags(fs, cfg, args[1:])

	switch args[0] {
	case "save":
		cmd.KeyringSave(ctx, cfg)
	case "delete":
		cmd.KeyringDelete(ctx, cfg)
	case "status":
		cmd.KeyringStatus(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lockdiary completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("lockdiary - Password-protected diary in a single encrypted file")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  lockdiary <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create a new encrypted diary")
	fmt.Println("  write       Write or replace an entry (text from stdin or -file)")
	fmt.Println("  show        Print an entry")
	fmt.Println("  ls          List entries")
	fmt.Println("  rm          Remove entries")
	fmt.Println("  react       Set or clear the reaction on an entry")
	fmt.Println("  export      Write the encrypted diary to a backup file")
	fmt.Println("  import      Replace the diary with a backup file")
	fmt.Println("  status      Show diary status")
	fmt.Println("  compact     Compact diary file to reclaim disk space")
	fmt.Println("  keyring     Manage password in OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Every command accepts -vault <path>, -iterations <n>, -log-level <level>")
	fmt.Println("and -no-keyring. The same settings come from LOCKDIARY_PATH,")
	fmt.Println("LOCKDIARY_ITERATIONS, LOCKDIARY_LOG_LEVEL and LOCKDIARY_NO_KEYRING, or a .env file.")
	fmt.Println("LOCKDIARY_PASSWORD supplies the password non-interactively.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  lockdiary init                          # Create ~/.lockdiary")
	fmt.Println("  echo 'Quiet day.' | lockdiary write     # Write today's entry")
	fmt.Println("  lockdiary write -title Trip -file t.txt 2024-07-01")
	fmt.Println("  lockdiary react 2024-07-01 🌊")
	fmt.Println("  lockdiary export backup.json")
	fmt.Println()
	fmt.Println("Use 'lockdiary help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("lockdiary init")
		fmt.Println()
		fmt.Println("Creates an empty encrypted diary at the vault path (default ~/.lockdiary).")
		fmt.Println("Prompts for a password twice. The password is not stored anywhere")
		fmt.Println("unless you choose to save it in the OS keyring.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  lockdiary init")
		fmt.Println("  lockdiary init -vault ~/Dropbox/diary.db")
	case "write":
		fmt.Println("lockdiary write [-title T] [-file F] [date]")
		fmt.Println()
		fmt.Println("Writes the entry for date (YYYY-MM-DD, default today).")
		fmt.Println("Text is read from -file, or from stdin until EOF.")
		fmt.Println("An existing entry is replaced; its title and reaction are kept")
		fmt.Println("unless -title is given. A diff of the text change is printed.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -title   Entry title")
		fmt.Println("  -file    Read text from file ('-' for stdin)")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  lockdiary write                      # Type today's entry, end with Ctrl-D")
		fmt.Println("  lockdiary write -file notes.txt 2024-03-08")
	case "show":
		fmt.Println("lockdiary show [date]")
		fmt.Println()
		fmt.Println("Prints the entry for date (default today).")
	case "ls":
		fmt.Println("lockdiary ls")
		fmt.Println()
		fmt.Println("Lists all entries in date order with their reaction and title.")
	case "rm":
		fmt.Println("lockdiary rm <date> [date...]")
		fmt.Println()
		fmt.Println("Removes entries and compacts the diary file.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  lockdiary rm 2024-01-01")
	case "react":
		fmt.Println("lockdiary react <date> [glyph]")
		fmt.Println()
		fmt.Println("Sets a single-glyph reaction (usually an emoji) on an entry.")
		fmt.Println("Without a glyph the reaction is cleared.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  lockdiary react 2024-01-01 🎉")
		fmt.Println("  lockdiary react 2024-01-01")
	case "export":
		fmt.Println("lockdiary export [-force] <file>")
		fmt.Println()
		fmt.Println("Writes the encrypted diary record to file (mode 0600).")
		fmt.Println("The backup stays encrypted with the current password.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "import":
		fmt.Println("lockdiary import [-force] <file>")
		fmt.Println()
		fmt.Println("Replaces the whole diary with a backup made by 'export'.")
		fmt.Println("Asks for the backup's password, which becomes the diary password.")
		fmt.Println("If the backup does not open, the current diary is left untouched.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -force   Replace the existing diary without asking")
	case "status":
		fmt.Println("lockdiary status")
		fmt.Println()
		fmt.Println("Shows diary status including:")
		fmt.Println("  - Format version and encryption details")
		fmt.Println("  - Creation and last save time")
		fmt.Println("  - Keyring and git state")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "compact":
		fmt.Println("lockdiary compact")
		fmt.Println()
		fmt.Println("Compacts the diary database to reclaim unused disk space.")
		fmt.Println("This is automatically done after 'rm',")
		fmt.Println("but can be run manually if needed.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "keyring":
		fmt.Println("lockdiary keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Manages the diary password in the OS keyring.")
		fmt.Println("  save     Check the password and store it")
		fmt.Println("  delete   Remove the stored password")
		fmt.Println("  status   Show whether a password is stored")
	case "completion":
		fmt.Println("lockdiary completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(lockdiary completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(lockdiary completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  lockdiary completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
