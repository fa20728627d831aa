package factory

import (
	"fmt"
	"math"
	"strconv"

	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/internal/util"
)

// literal renders a decoded literal value as TypeScript source.
func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return util.QuoteSingle(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	}
	return util.QuoteSingle(fmt.Sprint(v))
}

// constantExpr renders a literal that must keep its literal type: asserted
// to typePath when one is known, otherwise as const.
func constantExpr(v any, typePath string) string {
	if v == nil {
		return "null"
	}
	if typePath != "" {
		return literal(v) + " as " + typePath
	}
	return literal(v) + " as const"
}

// literalKind maps a literal to the primitive kind used for inference.
func literalKind(v any) (entity.PrimitiveKind, bool) {
	switch v.(type) {
	case nil:
		return entity.PrimitiveNull, true
	case string:
		return entity.PrimitiveString, true
	case bool:
		return entity.PrimitiveBoolean, true
	case float64, float32, int, int64, uint64:
		return entity.PrimitiveNumber, true
	}
	return "", false
}
