// Package main is the calcpad token inspector CLI.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lemonberrylabs/calcpad/pkg/lexer"
	"github.com/lemonberrylabs/calcpad/pkg/shunting"
	"github.com/lemonberrylabs/calcpad/pkg/token"
	"github.com/lemonberrylabs/calcpad/pkg/vars"
	"github.com/lemonberrylabs/calcpad/web"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var defaultUnits = []string{
	"kg", "g", "mg", "t", "km", "m", "cm", "mm", "h", "min", "s", "ms",
	"J", "W", "K", "mol", "N", "Pa", "b", "B", "kb", "kB", "Mb", "MB",
}

var rootCmd = &cobra.Command{
	Use:   "calcpad [file]",
	Short: "Tokenize calcpad notebook lines",
	Long: "Reads a notebook from a file (or stdin) and prints the token\n" +
		"stream per line, resolving variables and line references as it goes.",
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP token inspector",
	RunE:  runServe,
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("calcpad version {{.Version}}\n")

	rootCmd.PersistentFlags().String("vars", "", "YAML file seeding variable names and unit names")
	rootCmd.PersistentFlags().String("units", "", "Comma-separated unit names (default: common SI units)")
	rootCmd.Flags().Bool("postfix", false, "Also print the postfix form of each line")

	serveCmd.Flags().Int("port", 0, "HTTP server port (default 8787, env PORT)")
	serveCmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// seedFile is the --vars YAML layout.
type seedFile struct {
	Variables []struct {
		Line int    `yaml:"line"`
		Name string `yaml:"name"`
	} `yaml:"variables"`
	Units []string `yaml:"units"`
}

func setup(cmd *cobra.Command) (*vars.Table, lexer.UnitParser, error) {
	table := vars.New()
	unitNames := defaultUnits

	if path, _ := cmd.Flags().GetString("vars"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading vars file: %w", err)
		}
		var seed seedFile
		if err := yaml.Unmarshal(raw, &seed); err != nil {
			return nil, nil, fmt.Errorf("parsing vars file %s: %w", path, err)
		}
		for _, v := range seed.Variables {
			table.Set(v.Line, &vars.Variable{Name: []rune(v.Name)})
		}
		if len(seed.Units) > 0 {
			unitNames = seed.Units
		}
	}
	if list, _ := cmd.Flags().GetString("units"); list != "" {
		unitNames = strings.Split(list, ",")
	}
	return table, lexer.NewNameSet(unitNames...), nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	table, units, err := setup(cmd)
	if err != nil {
		return err
	}
	postfix, _ := cmd.Flags().GetBool("postfix")

	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening notebook: %w", err)
		}
		defer f.Close()
		in = f
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineIndex := 0
	for scanner.Scan() {
		if lineIndex >= vars.MaxLineCount {
			log.Printf("Warning: notebook truncated at %d lines", vars.MaxLineCount)
			break
		}
		line := []rune(scanner.Text())
		tokens := lexer.Tokenize(line, table, lineIndex, units)

		fmt.Printf("%3d │ %s\n", lineIndex+1, string(line))
		fmt.Printf("    │ %s\n", renderTokens(tokens))
		if postfix {
			fmt.Printf("    │ postfix: %s\n", renderTokens(shunting.Parse(tokens)))
		}

		table.Set(lineIndex, &vars.Variable{Name: declaredName(line, tokens, lineIndex)})
		lineIndex++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading notebook: %w", err)
	}
	return nil
}

// declaredName picks the name later lines resolve this line by: the text
// left of a top-level '=' when the line is an assignment, else the
// line-reference form "&[N]" (1-based).
func declaredName(line []rune, tokens []token.Token, lineIndex int) []rune {
	for i := range tokens {
		t := &tokens[i]
		if t.Type == token.OperatorToken && t.Op.Kind == token.Assign {
			name := strings.TrimSpace(string(line[:tokenOffset(tokens, i)]))
			if name != "" {
				return []rune(name)
			}
			break
		}
		if t.Type != token.StringLiteral && t.Type != token.Variable {
			break
		}
	}
	return []rune(fmt.Sprintf("&[%d]", lineIndex+1))
}

// tokenOffset returns the rune offset of token i within its line.
func tokenOffset(tokens []token.Token, i int) int {
	off := 0
	for j := 0; j < i; j++ {
		off += len(tokens[j].Ptr)
	}
	return off
}

func renderTokens(tokens []token.Token) string {
	var sb strings.Builder
	for i := range tokens {
		t := &tokens[i]
		if t.IsWhitespace() {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(renderToken(t))
	}
	return sb.String()
}

func renderToken(t *token.Token) string {
	switch t.Type {
	case token.NumberLiteral:
		return fmt.Sprintf("NUMBER(%s)", t.Num)
	case token.NumberErr:
		return fmt.Sprintf("NUMBER_ERR(%q)", t.Text())
	case token.Variable:
		return fmt.Sprintf("VARIABLE(%s)", t.Text())
	case token.LineReference:
		return fmt.Sprintf("LINEREF(%s)", t.Text())
	case token.UnitToken:
		return fmt.Sprintf("UNIT(%s)", t.Unit)
	case token.Header:
		return fmt.Sprintf("HEADER(%q)", t.Text())
	case token.OperatorToken:
		switch t.Op.Kind {
		case token.ApplyUnit:
			return fmt.Sprintf("APPLY_UNIT(%s)", t.Op.Unit)
		case token.Matrix:
			return fmt.Sprintf("MATRIX(%dx%d)", t.Op.RowCount, t.Op.ColCount)
		case token.Fn:
			return fmt.Sprintf("FN(%s/%d)", t.Op.Func, t.Op.ArgCount)
		default:
			return t.Op.Kind.String()
		}
	default:
		return fmt.Sprintf("STRING(%q)", t.Text())
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	table, units, err := setup(cmd)
	if err != nil {
		return err
	}

	port := envOrDefault("PORT", "8787")
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		port = fmt.Sprintf("%d", v)
	}
	host := envOrDefault("HOST", "0.0.0.0")
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		host = v
	}
	addr := fmt.Sprintf("%s:%s", host, port)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	web.New(table, units).Register(app)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down inspector...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("calcpad inspector listening on %s", addr)
	return app.Listen(addr)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
