package infer

import "github.com/nicu/typemockr/entity"

const wordExpr = "faker.lorem.word()"

var defaultExprs = map[entity.PrimitiveKind]string{
	entity.PrimitiveString:    wordExpr,
	entity.PrimitiveAny:       wordExpr,
	entity.PrimitiveNumber:    "faker.number.int({ min: 0, max: 1000 })",
	entity.PrimitiveBigInt:    "faker.number.bigInt({ min: 0n, max: 1000n })",
	entity.PrimitiveBoolean:   "faker.datatype.boolean()",
	entity.PrimitiveNull:      "null",
	entity.PrimitiveDate:      "faker.date.recent()",
	entity.PrimitiveUnknown:   "{}",
	entity.PrimitiveObject:    "{}",
	entity.PrimitiveUndefined: "undefined",
	entity.PrimitiveVoid:      "undefined",
	entity.PrimitiveNever:     "undefined as never",
	entity.PrimitiveSymbol:    "Symbol(faker.lorem.word())",
}

// DefaultFor returns the built-in default expression for kind, without
// configuration overrides. Kinds outside the table get word text.
func DefaultFor(kind entity.PrimitiveKind) string {
	if expr, ok := defaultExprs[kind]; ok {
		return expr
	}
	return wordExpr
}
