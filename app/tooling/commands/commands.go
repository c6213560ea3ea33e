// Package commands holds the repogen tooling subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/jrazmi/repogen/sdk/logger"
)

// Handler runs a command with the arguments that follow its name.
type Handler func(ctx context.Context, log *logger.Logger, args []string) error

// Command is a named tooling subcommand.
type Command struct {
	Name        string
	Description string
	Run         Handler
}

// Registry maps command names to commands.
type Registry struct {
	commands map[string]Command
	out      io.Writer
}

// NewRegistry returns a registry with every repogen command. Command output
// that is not logging goes to out.
func NewRegistry(build string, out io.Writer) *Registry {
	r := &Registry{commands: make(map[string]Command), out: out}
	r.Register(Command{
		Name:        "generate",
		Description: "generate base repositories from a schema descriptor",
		Run:         Generate,
	})
	r.Register(Command{
		Name:        "reflect-schema",
		Description: "reflect a live database schema to a JSON descriptor",
		Run:         ReflectSchema,
	})
	r.Register(Command{
		Name:        "tables",
		Description: "list the tables in a schema descriptor",
		Run: func(ctx context.Context, log *logger.Logger, args []string) error {
			return Tables(ctx, r.out, args)
		},
	})
	r.Register(Command{
		Name:        "version",
		Description: "print version information",
		Run: func(ctx context.Context, log *logger.Logger, args []string) error {
			return Version(r.out, build)
		},
	})
	return r
}

// Register adds c, replacing any command with the same name.
func (r *Registry) Register(c Command) {
	r.commands[c.Name] = c
}

// Lookup returns the command called name.
func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Names returns the registered command names in order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.commands))
}

// Run dispatches args[0] with the remaining arguments. No command, "help",
// "-h" and "--help" print the command list.
func (r *Registry) Run(ctx context.Context, log *logger.Logger, args []string) error {
	if len(args) == 0 {
		r.PrintHelp()
		return nil
	}
	switch args[0] {
	case "help", "-h", "--help":
		r.PrintHelp()
		return nil
	}

	c, ok := r.Lookup(args[0])
	if !ok {
		r.PrintHelp()
		return fmt.Errorf("unknown command %q", args[0])
	}
	if err := c.Run(ctx, log, args[1:]); err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	return nil
}

// PrintHelp writes the command list.
func (r *Registry) PrintHelp() {
	fmt.Fprintln(r.out, "Available commands:")
	for _, name := range r.Names() {
		fmt.Fprintf(r.out, "  %-15s - %s\n", name, r.commands[name].Description)
	}
	fmt.Fprintf(r.out, "  %-15s - %s\n", "help", "show this message")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Use 'repogen <command> -h' for command-specific help.")
}
