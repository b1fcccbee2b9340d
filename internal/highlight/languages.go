// internal/highlight/languages.go
package highlight

import "github.com/darealtrueblue/codeforge/internal/types"

// Rule order matters: at each scan position the first matching rule wins, so
// comments and strings come before operators, and keyword alternations come
// before the generic function-call rule.

func goSpec() LanguageSpec {
	return LanguageSpec{
		Name:       "go",
		Extensions: []string{".go"},
		Rules: []RuleSpec{
			{Pattern: `/\*`, BlockEnd: `\*/`, Kind: types.KindComment},
			{Pattern: "`", BlockEnd: "`", Kind: types.KindString},
			{Pattern: `//.*`, Kind: types.KindComment},
			{Pattern: `"(?:[^"\\]|\\.)*"`, Kind: types.KindString},
			{Pattern: `'(?:[^'\\]|\\.)*'`, Kind: types.KindString},
			{Pattern: `0[xX][0-9a-fA-F_]+\b`, Kind: types.KindNumber},
			{Pattern: `0[oO][0-7_]+\b`, Kind: types.KindNumber},
			{Pattern: `0[bB][01_]+\b`, Kind: types.KindNumber},
			{Pattern: `\d[\d_]*(?:\.[\d_]*)?(?:[eE][+-]?\d+)?i?\b`, Kind: types.KindNumber},
			{Pattern: `(?:break|case|chan|const|continue|default|defer|else|fallthrough|for|func|go|goto|if|import|interface|map|package|range|return|select|struct|switch|type|var)\b`, Kind: types.KindKeyword},
			{Pattern: `(?:true|false|nil|iota)\b`, Kind: types.KindConstant},
			{Pattern: `(?:bool|byte|complex64|complex128|error|float32|float64|int|int8|int16|int32|int64|rune|string|uint|uint8|uint16|uint32|uint64|uintptr|any)\b`, Kind: types.KindType},
			{Pattern: `([A-Za-z_][A-Za-z0-9_]*)\s*\(`, Submatch: 1, Kind: types.KindFunction},
			{Pattern: `[+\-*/%=<>!&|^~:;.,]+`, Kind: types.KindOperator},
		},
	}
}

func pythonSpec() LanguageSpec {
	return LanguageSpec{
		Name:       "python",
		Extensions: []string{".py", ".pyw", ".pyi"},
		Rules: []RuleSpec{
			{Pattern: `"""`, BlockEnd: `"""`, Kind: types.KindString},
			{Pattern: `'''`, BlockEnd: `'''`, Kind: types.KindString},
			{Pattern: `#.*`, Kind: types.KindComment},
			{Pattern: `[rbfu]*"(?:[^"\\]|\\.)*"`, Kind: types.KindString},
			{Pattern: `[rbfu]*'(?:[^'\\]|\\.)*'`, Kind: types.KindString},
			{Pattern: `@[A-Za-z_][A-Za-z0-9_.]*`, Kind: types.KindPreproc},
			{Pattern: `0[xX][0-9a-fA-F_]+\b`, Kind: types.KindNumber},
			{Pattern: `0[oO][0-7_]+\b`, Kind: types.KindNumber},
			{Pattern: `0[bB][01_]+\b`, Kind: types.KindNumber},
			{Pattern: `\d[\d_]*(?:\.[\d_]*)?(?:[eE][+-]?\d+)?j?\b`, Kind: types.KindNumber},
			{Pattern: `(?:and|as|assert|async|await|break|class|continue|def|del|elif|else|except|finally|for|from|global|if|import|in|is|lambda|match|nonlocal|not|or|pass|raise|return|try|while|with|yield)\b`, Kind: types.KindKeyword},
			{Pattern: `(?:True|False|None|self|cls)\b`, Kind: types.KindConstant},
			{Pattern: `(?:int|float|str|bool|list|dict|set|tuple|bytes|bytearray|complex|frozenset|object|type)\b`, Kind: types.KindType},
			{Pattern: `([A-Za-z_][A-Za-z0-9_]*)\s*\(`, Submatch: 1, Kind: types.KindFunction},
			{Pattern: `[+\-*/%=<>!&|^~:;.,]+`, Kind: types.KindOperator},
		},
	}
}

func javascriptSpec() LanguageSpec {
	return LanguageSpec{
		Name:       "javascript",
		Extensions: []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"},
		Rules: []RuleSpec{
			{Pattern: `/\*`, BlockEnd: `\*/`, Kind: types.KindComment},
			{Pattern: "`", BlockEnd: "`", Kind: types.KindString},
			{Pattern: `//.*`, Kind: types.KindComment},
			{Pattern: `"(?:[^"\\]|\\.)*"`, Kind: types.KindString},
			{Pattern: `'(?:[^'\\]|\\.)*'`, Kind: types.KindString},
			{Pattern: `0[xX][0-9a-fA-F_]+n?\b`, Kind: types.KindNumber},
			{Pattern: `0[oO][0-7_]+n?\b`, Kind: types.KindNumber},
			{Pattern: `0[bB][01_]+n?\b`, Kind: types.KindNumber},
			{Pattern: `\d[\d_]*(?:\.[\d_]*)?(?:[eE][+-]?\d+)?n?\b`, Kind: types.KindNumber},
			{Pattern: `(?:break|case|catch|class|const|continue|debugger|default|delete|do|else|export|extends|finally|for|function|if|import|in|instanceof|let|new|of|return|static|super|switch|this|throw|try|typeof|var|void|while|with|yield|async|await|get|set)\b`, Kind: types.KindKeyword},
			{Pattern: `(?:true|false|null|undefined|NaN|Infinity)\b`, Kind: types.KindConstant},
			{Pattern: `(?:string|number|boolean|object|symbol|bigint|unknown|never|void|any)\b`, Kind: types.KindType},
			{Pattern: `([A-Za-z_$][A-Za-z0-9_$]*)\s*\(`, Submatch: 1, Kind: types.KindFunction},
			{Pattern: `[+\-*/%=<>!&|^~?:;.,]+`, Kind: types.KindOperator},
		},
	}
}

func cSpec() LanguageSpec {
	return LanguageSpec{
		Name:       "c",
		Extensions: []string{".c", ".h", ".cpp", ".hpp", ".cc"},
		Rules: []RuleSpec{
			{Pattern: `/\*`, BlockEnd: `\*/`, Kind: types.KindComment},
			{Pattern: `//.*`, Kind: types.KindComment},
			{Pattern: `#\s*[A-Za-z]+`, Kind: types.KindPreproc},
			{Pattern: `"(?:[^"\\]|\\.)*"`, Kind: types.KindString},
			{Pattern: `'(?:[^'\\]|\\.)*'`, Kind: types.KindString},
			{Pattern: `0[xX][0-9a-fA-F]+[uUlL]*\b`, Kind: types.KindNumber},
			{Pattern: `\d+(?:\.\d*)?(?:[eE][+-]?\d+)?[fFuUlL]*\b`, Kind: types.KindNumber},
			{Pattern: `(?:break|case|continue|default|do|else|for|goto|if|return|sizeof|switch|while|typedef|extern|static|inline|register|volatile|const|restrict)\b`, Kind: types.KindKeyword},
			{Pattern: `(?:NULL|true|false)\b`, Kind: types.KindConstant},
			{Pattern: `(?:void|char|short|int|long|float|double|signed|unsigned|struct|union|enum|size_t|ssize_t|int8_t|int16_t|int32_t|int64_t|uint8_t|uint16_t|uint32_t|uint64_t|bool)\b`, Kind: types.KindType},
			{Pattern: `([A-Za-z_][A-Za-z0-9_]*)\s*\(`, Submatch: 1, Kind: types.KindFunction},
			{Pattern: `[+\-*/%=<>!&|^~?:;.,]+`, Kind: types.KindOperator},
		},
	}
}

func htmlSpec() LanguageSpec {
	return LanguageSpec{
		Name:       "html",
		Extensions: []string{".html", ".htm", ".xml", ".svg"},
		Rules: []RuleSpec{
			{Pattern: `<!--`, BlockEnd: `-->`, Kind: types.KindComment},
			{Pattern: `</?[A-Za-z][A-Za-z0-9-]*`, Kind: types.KindTag},
			{Pattern: `/?>`, Kind: types.KindTag},
			{Pattern: `([A-Za-z_:][A-Za-z0-9_:.-]*)\s*=`, Submatch: 1, Kind: types.KindAttribute},
			{Pattern: `"[^"]*"`, Kind: types.KindString},
			{Pattern: `'[^']*'`, Kind: types.KindString},
			{Pattern: `&[A-Za-z]+;|&#\d+;`, Kind: types.KindConstant},
		},
	}
}

func builtinSpecs() []LanguageSpec {
	return []LanguageSpec{
		goSpec(),
		pythonSpec(),
		javascriptSpec(),
		cSpec(),
		htmlSpec(),
	}
}
