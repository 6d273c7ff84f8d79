// Package web exposes the tokenizer as a small JSON inspection API.
package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lemonberrylabs/calcpad/pkg/lexer"
	"github.com/lemonberrylabs/calcpad/pkg/shunting"
	"github.com/lemonberrylabs/calcpad/pkg/token"
	"github.com/lemonberrylabs/calcpad/pkg/vars"
)

// Handler serves the inspector endpoints.
type Handler struct {
	table *vars.Table
	units lexer.UnitParser
}

// New creates a handler over the given variable table and unit grammar.
// units may be nil to tokenize without unit recognition.
func New(table *vars.Table, units lexer.UnitParser) *Handler {
	return &Handler{table: table, units: units}
}

// Register adds the inspector routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/api/tokenize", h.tokenize)
	app.Post("/api/vars", h.setVar)
	app.Delete("/api/vars/:line", h.clearVar)
	app.Get("/api/precedence", h.precedence)
}

type tokenizeRequest struct {
	Line      string `json:"line"`
	LineIndex int    `json:"lineIndex"`
	Postfix   bool   `json:"postfix"`
}

type tokenView struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Value    string `json:"value,omitempty"`
	Operator string `json:"operator,omitempty"`
	Unit     string `json:"unit,omitempty"`
	VarIndex *int   `json:"varIndex,omitempty"`
	Error    bool   `json:"error,omitempty"`
}

func (h *Handler) tokenize(c *fiber.Ctx) error {
	var req tokenizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.LineIndex < 0 || req.LineIndex > vars.MaxLineCount {
		return c.Status(400).JSON(fiber.Map{"error": "lineIndex out of range"})
	}

	tokens := lexer.Tokenize([]rune(req.Line), h.table, req.LineIndex, h.units)
	resp := fiber.Map{"tokens": tokenViews(tokens)}
	if req.Postfix {
		resp["postfix"] = tokenViews(shunting.Parse(tokens))
	}
	return c.JSON(resp)
}

type setVarRequest struct {
	Line int    `json:"line"`
	Name string `json:"name"`
}

func (h *Handler) setVar(c *fiber.Ctx) error {
	var req setVarRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Line < 0 || req.Line > vars.MaxLineCount {
		return c.Status(400).JSON(fiber.Map{"error": "line out of range"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}
	h.table.Set(req.Line, &vars.Variable{Name: []rune(req.Name)})
	return c.JSON(fiber.Map{"line": req.Line, "name": req.Name})
}

func (h *Handler) clearVar(c *fiber.Ctx) error {
	line, err := c.ParamsInt("line")
	if err != nil || line < 0 || line > vars.MaxLineCount {
		return c.Status(400).JSON(fiber.Map{"error": "invalid line"})
	}
	h.table.Clear(line)
	return c.SendStatus(204)
}

type precedenceRow struct {
	Operator      string `json:"operator"`
	Precedence    int    `json:"precedence"`
	Associativity string `json:"associativity"`
}

func (h *Handler) precedence(c *fiber.Ctx) error {
	kinds := []token.OpKind{
		token.Comma, token.Semicolon, token.Add, token.Sub,
		token.UnaryPlus, token.UnaryMinus, token.Mult, token.Div,
		token.Perc, token.Pow, token.BinAnd, token.BinOr, token.BinXor,
		token.BinNot, token.ShiftLeft, token.ShiftRight, token.Assign,
		token.UnitConverter, token.ApplyUnit,
	}
	rows := make([]precedenceRow, 0, len(kinds))
	for _, k := range kinds {
		assoc := "left"
		if k.Assoc() == token.AssocRight {
			assoc = "right"
		}
		rows = append(rows, precedenceRow{
			Operator:      k.String(),
			Precedence:    k.Precedence(),
			Associativity: assoc,
		})
	}
	return c.JSON(fiber.Map{"operators": rows})
}

func tokenViews(tokens []token.Token) []tokenView {
	views := make([]tokenView, 0, len(tokens))
	for i := range tokens {
		t := &tokens[i]
		v := tokenView{
			Type:  t.Type.String(),
			Text:  t.Text(),
			Error: t.HasError,
		}
		switch t.Type {
		case token.NumberLiteral:
			v.Value = t.Num.String()
		case token.OperatorToken:
			v.Operator = t.Op.Kind.String()
			if t.Op.Unit != nil {
				v.Unit = t.Op.Unit.String()
			}
		case token.UnitToken:
			if t.Unit != nil {
				v.Unit = t.Unit.String()
			}
		case token.Variable, token.LineReference:
			idx := t.VarIndex
			v.VarIndex = &idx
		}
		views = append(views, v)
	}
	return views
}
