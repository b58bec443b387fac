package sqlite

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// sqlCondition is a WHERE clause fragment with positional parameters.
type sqlCondition struct {
	Clause string
	Params []any
}

// filterColumns maps filter identifiers to summary columns.
var filterColumns = map[string]string{
	"name":        "name",
	"race":        "race",
	"class":       "class",
	"profession":  "profession",
	"potential":   "potential",
	"class_level": "class_level",
}

func filterDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("name", filtering.TypeString),
		filtering.DeclareIdent("race", filtering.TypeString),
		filtering.DeclareIdent("class", filtering.TypeString),
		filtering.DeclareIdent("profession", filtering.TypeString),
		filtering.DeclareIdent("potential", filtering.TypeString),
		filtering.DeclareIdent("class_level", filtering.TypeInt),
	)
}

// parseCharacterFilter translates an AIP-160 filter into a SQL condition.
// An empty filter yields an empty condition.
func parseCharacterFilter(filter string) (sqlCondition, error) {
	if strings.TrimSpace(filter) == "" {
		return sqlCondition{}, nil
	}
	decls, err := filterDeclarations()
	if err != nil {
		return sqlCondition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filter, decls)
	if err != nil {
		return sqlCondition{}, invalidFilter(err.Error())
	}
	cond, err := translateExpr(parsed.CheckedExpr.GetExpr())
	if err != nil {
		return sqlCondition{}, invalidFilter(err.Error())
	}
	return cond, nil
}

func invalidFilter(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeFilterInvalid, "invalid filter: "+reason, map[string]string{"Reason": reason})
}

func translateExpr(e *expr.Expr) (sqlCondition, error) {
	if e == nil {
		return sqlCondition{}, nil
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return sqlCondition{}, fmt.Errorf("unsupported expression type: %T", e.ExprKind)
	}
	return translateCall(call.CallExpr)
}

func translateCall(call *expr.Expr_Call) (sqlCondition, error) {
	switch call.Function {
	case "AND", "_&&_":
		return translateLogical(call.Args, "AND")
	case "OR", "_||_":
		return translateLogical(call.Args, "OR")
	case "NOT", "!_":
		return translateNot(call.Args)
	case "=", "!=", "<", "<=", ">", ">=":
		return translateComparison(call.Args, call.Function)
	case ":":
		return translateHas(call.Args)
	}
	return sqlCondition{}, fmt.Errorf("unsupported function: %s", call.Function)
}

func translateLogical(args []*expr.Expr, op string) (sqlCondition, error) {
	if len(args) != 2 {
		return sqlCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := translateExpr(args[0])
	if err != nil {
		return sqlCondition{}, err
	}
	right, err := translateExpr(args[1])
	if err != nil {
		return sqlCondition{}, err
	}
	return sqlCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func translateNot(args []*expr.Expr) (sqlCondition, error) {
	if len(args) != 1 {
		return sqlCondition{}, fmt.Errorf("NOT requires 1 argument")
	}
	inner, err := translateExpr(args[0])
	if err != nil {
		return sqlCondition{}, err
	}
	return sqlCondition{Clause: "(NOT " + inner.Clause + ")", Params: inner.Params}, nil
}

func translateComparison(args []*expr.Expr, op string) (sqlCondition, error) {
	column, value, err := columnAndValue(args)
	if err != nil {
		return sqlCondition{}, err
	}
	return sqlCondition{
		Clause: fmt.Sprintf("%s %s ?", column, op),
		Params: []any{value},
	}, nil
}

// translateHas maps name:"luf" to a case-insensitive substring match.
func translateHas(args []*expr.Expr) (sqlCondition, error) {
	column, value, err := columnAndValue(args)
	if err != nil {
		return sqlCondition{}, err
	}
	text, ok := value.(string)
	if !ok {
		return sqlCondition{}, fmt.Errorf("has operator requires a string value")
	}
	text = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(text)
	return sqlCondition{
		Clause: fmt.Sprintf("%s LIKE ? ESCAPE '\\'", column),
		Params: []any{"%" + text + "%"},
	}, nil
}

func columnAndValue(args []*expr.Expr) (string, any, error) {
	if len(args) != 2 {
		return "", nil, fmt.Errorf("comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return "", nil, fmt.Errorf("expected identifier on the left side")
	}
	column, ok := filterColumns[ident.IdentExpr.GetName()]
	if !ok {
		return "", nil, fmt.Errorf("unknown field: %s", ident.IdentExpr.GetName())
	}
	constant, ok := args[1].GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return "", nil, fmt.Errorf("expected constant on the right side")
	}
	switch kind := constant.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return column, kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return column, kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return column, int64(kind.Uint64Value), nil
	case *expr.Constant_DoubleValue:
		return column, kind.DoubleValue, nil
	}
	return "", nil, fmt.Errorf("unsupported constant type: %T", constant.ConstExpr.GetConstantKind())
}
