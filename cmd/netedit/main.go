package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anggasct/netedit"
	"github.com/anggasct/netedit/visualization"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

var Version string

func main() {
	cliflags := make(map[string]any)
	ctx := context.Background()

	var configFile string

	outputFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the edited elements to this file instead of stdout",
		},
		&cli.BoolFlag{
			Name:  "diff",
			Usage: "Print the changed lines to stderr",
		},
	}

	app := &cli.Command{
		Name:    "netedit",
		Usage:   "Inspect and edit detectors and person stops of a network",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "TOML config file",
				Destination: &configFile,
				Aliases:     []string{"c"},
				Sources:     cli.EnvVars("NETEDIT_CONFIG"),
				Action: func(ctx context.Context, cmd *cli.Command, v string) error {
					if _, err := os.Stat(v); err != nil && os.IsNotExist(err) {
						return errors.New("config file not found")
					} else if err != nil {
						return err
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:    "network",
				Aliases: []string{"n"},
				Usage:   "Network YAML file",
				Action: func(ctx context.Context, cmd *cli.Command, v string) error {
					cliflags["network.file"] = v
					return nil
				},
			},
			&cli.StringFlag{
				Name:    "elements",
				Aliases: []string{"e"},
				Usage:   "Elements file, YAML or msgpack",
				Action: func(ctx context.Context, cmd *cli.Command, v string) error {
					cliflags["elements.file"] = v
					return nil
				},
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: yaml or msgpack",
				Action: func(ctx context.Context, cmd *cli.Command, v string) error {
					cliflags["output.format"] = v
					return nil
				},
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Abort on unknown attribute keys",
				Action: func(ctx context.Context, cmd *cli.Command, b bool) error {
					cliflags["strict"] = b
					return nil
				},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
				Action: func(ctx context.Context, cmd *cli.Command, b bool) error {
					if b {
						cliflags["log.level"] = "debug"
					}
					return nil
				},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Print elements, or the attributes of one element",
				ArgsUsage: "[<tag> <id>]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					s, err := setup(configFile, cliflags)
					if err != nil {
						return err
					}
					if cmd.Args().Len() == 0 {
						fmt.Print(string(s.before))
						return nil
					}
					if cmd.Args().Len() != 2 {
						return errors.New("show needs a tag and an id")
					}
					e, err := s.element(cmd.Args().Get(0), cmd.Args().Get(1))
					if err != nil {
						return err
					}
					printAttributes(e)
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "List elements that cannot be written out as they are",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					s, err := setup(configFile, cliflags)
					if err != nil {
						return err
					}
					problems := s.net.Problems()
					for _, p := range problems {
						fmt.Println(p)
					}
					if len(problems) > 0 {
						return cli.Exit(fmt.Sprintf("%d invalid elements", len(problems)), 1)
					}
					fmt.Println("No problems found")
					return nil
				},
			},
			{
				Name:  "fix",
				Usage: "Move invalid elements back into their lanes and edges",
				Flags: outputFlags,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					s, err := setup(configFile, cliflags)
					if err != nil {
						return err
					}
					if err := s.fixAll(); err != nil {
						return err
					}
					return s.write(cmd.String("output"), cmd.Bool("diff"))
				},
			},
			{
				Name:      "set",
				Usage:     "Set attribute values",
				ArgsUsage: "<tag> <id> <key>=<value>...",
				Flags:     outputFlags,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 3 {
						return errors.New("set needs a tag, an id and at least one key=value")
					}
					s, err := setup(configFile, cliflags)
					if err != nil {
						return err
					}
					e, err := s.element(cmd.Args().Get(0), cmd.Args().Get(1))
					if err != nil {
						return err
					}
					undo := s.net.UndoList()
					err = undo.Group(fmt.Sprintf("set %s '%s'", e.Tag(), e.ID()), func() error {
						for _, arg := range cmd.Args().Slice()[2:] {
							name, value, ok := strings.Cut(arg, "=")
							if !ok {
								return fmt.Errorf("expected key=value, got '%s'", arg)
							}
							key, err := parseKey(name)
							if err != nil {
								return err
							}
							if err := e.SetAttribute(key, value, undo); err != nil {
								return err
							}
						}
						return nil
					})
					if err != nil {
						return err
					}
					return s.write(cmd.String("output"), cmd.Bool("diff"))
				},
			},
			{
				Name:      "enable",
				Usage:     "Enable an optional attribute",
				ArgsUsage: "<tag> <id> <key>",
				Flags:     outputFlags,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return toggle(cmd, configFile, cliflags, true)
				},
			},
			{
				Name:      "disable",
				Usage:     "Disable an optional attribute",
				ArgsUsage: "<tag> <id> <key>",
				Flags:     outputFlags,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return toggle(cmd, configFile, cliflags, false)
				},
			},
			{
				Name:      "schema",
				Usage:     "Describe the attributes of an element kind",
				ArgsUsage: "[<tag>]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dot",
						Usage: "Print a Graphviz graph",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						for _, tag := range netedit.Tags() {
							fmt.Println(tag)
						}
						return nil
					}
					schema, ok := netedit.SchemaFor(netedit.Tag(cmd.Args().First()))
					if !ok {
						return fmt.Errorf("unknown element kind '%s'", cmd.Args().First())
					}
					if cmd.Bool("dot") {
						dot, err := visualization.NewDOTGenerator(schema).Generate()
						if err != nil {
							return err
						}
						fmt.Print(dot)
						return nil
					}
					printSchema(schema)
					return nil
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func toggle(cmd *cli.Command, configFile string, cliflags map[string]any, enable bool) error {
	if cmd.Args().Len() != 3 {
		return fmt.Errorf("%s needs a tag, an id and a key", cmd.Name)
	}
	s, err := setup(configFile, cliflags)
	if err != nil {
		return err
	}
	e, err := s.element(cmd.Args().Get(0), cmd.Args().Get(1))
	if err != nil {
		return err
	}
	key, err := parseKey(cmd.Args().Get(2))
	if err != nil {
		return err
	}
	if enable {
		err = e.EnableAttribute(key, s.net.UndoList())
	} else {
		err = e.DisableAttribute(key, s.net.UndoList())
	}
	if err != nil {
		return err
	}
	return s.write(cmd.String("output"), cmd.Bool("diff"))
}

func printAttributes(e netedit.AttributeCarrier) {
	fmt.Printf("%s '%s'\n", e.Tag(), e.ID())
	for _, key := range e.Keys() {
		value, err := e.GetAttribute(key)
		if err != nil {
			continue
		}
		state := ""
		if !e.IsAttributeEnabled(key) {
			state = " (disabled)"
		}
		fmt.Printf("  %-14s %s%s\n", key, value, state)
	}
	if !e.IsElementValid() {
		fmt.Printf("  problem: %s\n", e.Problem())
	}
}

func printSchema(schema netedit.Schema) {
	fmt.Println(schema.Tag)
	for _, info := range schema.Attributes {
		var flags []string
		if info.Optional {
			flags = append(flags, "optional")
			if info.Enabled {
				flags = append(flags, "enabled")
			}
		}
		if info.ReadOnly {
			flags = append(flags, "read-only")
		}
		if info.Positional {
			flags = append(flags, "positional")
		}
		fmt.Printf("  %-14s %-10s %-8q %s\n", info.Key, info.Kind, info.Default, strings.Join(flags, ","))
	}
	for _, group := range schema.Exclusive {
		fmt.Printf("  exclusive: %v\n", group)
	}
	for _, group := range schema.RequireOneOf {
		fmt.Printf("  one of: %v\n", group)
	}
	for _, req := range schema.Requires {
		fmt.Printf("  %s requires: %s\n", req.Key, req.Reason)
	}
}
