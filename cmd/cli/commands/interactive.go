package commands

import (
	"bufio"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (load once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against one loaded planner.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{AllowLoadErrorAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app.printf("\n🚀 Starting interactive session...\n")
			app.printf("Type 'help' for available commands, 'exit' or 'quit' to leave\n")
			if app.Offline {
				app.printf("%s⚠️  Working offline on the local store%s\n", colorYellow, colorReset)
			}

			root := cmd.Root()
			scanner := bufio.NewScanner(cmd.InOrStdin())

			for {
				app.printf("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts, err := parseCommandLine(line)
				if err != nil {
					app.printf("❌ Error parsing command: %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}

				switch parts[0] {
				case "exit", "quit":
					app.printf("👋 Goodbye!\n")
					return nil
				case "help":
					printInteractiveHelp(app, root)
					continue
				case "reload":
					if err := app.Planner.Reload(app.Ctx); err != nil {
						app.printf("❌ Error: %v\n\n", err)
						continue
					}
					app.printf("✓ Reloaded\n")
					continue
				case "interactive", "completion":
					app.printf("❌ %s is not available here\n\n", parts[0])
					continue
				}

				if err := runInteractive(root, parts); err != nil {
					app.printf("❌ Error: %v\n\n", err)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

// runInteractive finds the (sub)command named by parts and calls its RunE
// directly, so PersistentPreRunE does not reload the planner
func runInteractive(root *cobra.Command, parts []string) error {
	target, rest, err := root.Find(parts)
	if err != nil {
		return err
	}
	if target == root {
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", parts[0])
	}
	if target.RunE == nil && target.Run == nil {
		names := make([]string, 0, len(target.Commands()))
		for _, sub := range target.Commands() {
			names = append(names, sub.Name())
		}
		return fmt.Errorf("%s needs a subcommand: %s", target.Name(), strings.Join(names, ", "))
	}

	// flags keep their values between runs otherwise
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	})

	if err := target.ParseFlags(rest); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	args := target.Flags().Args()

	if target.Args != nil {
		if err := target.Args(target, args); err != nil {
			return err
		}
	}

	if target.RunE != nil {
		return target.RunE(target, args)
	}
	target.Run(target, args)
	return nil
}

func printInteractiveHelp(app *AppContext, root *cobra.Command) {
	app.printf("\nAvailable commands:\n")

	var lines [][2]string
	for _, cmd := range root.Commands() {
		name := cmd.Name()
		if name == "interactive" || name == "completion" || name == "help" {
			continue
		}
		if !cmd.HasSubCommands() {
			lines = append(lines, [2]string{cmd.Use, cmd.Short})
			continue
		}
		for _, sub := range cmd.Commands() {
			lines = append(lines, [2]string{name + " " + sub.Use, sub.Short})
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i][0] < lines[j][0] })

	for _, l := range lines {
		app.printf("  %-45s %s\n", l[0], l[1])
	}

	app.printf("\n  %-45s %s\n", "reload", "Reload all planner data from the store")
	app.printf("  %-45s %s\n", "help", "Show this help message")
	app.printf("  %-45s %s\n", "exit, quit", "Exit the interactive session")
}

// parseCommandLine splits a command line into arguments, respecting quoted strings
// Supports both single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune // 0 if not in quote, '"' or '\'' if in quote
	quoted := false  // current argument opened a quote, so keep it even if empty

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
			quoted = true
		case unicode.IsSpace(r):
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}

	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}

	return args, nil
}
