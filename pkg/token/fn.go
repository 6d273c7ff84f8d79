package token

// FnType identifies a builtin function attached to an Fn marker.
type FnType int

const (
	FnAbs FnType = iota
	FnSin
	FnCos
	FnTan
	FnAsin
	FnAcos
	FnAtan
	FnLn
	FnLg
	FnLog
	FnNth
	FnSum
	FnTranspose
	FnCeil
	FnFloor
	FnRound
)

var fnNames = map[string]FnType{
	"abs":       FnAbs,
	"sin":       FnSin,
	"cos":       FnCos,
	"tan":       FnTan,
	"asin":      FnAsin,
	"acos":      FnAcos,
	"atan":      FnAtan,
	"ln":        FnLn,
	"lg":        FnLg,
	"log":       FnLog,
	"nth":       FnNth,
	"sum":       FnSum,
	"transpose": FnTranspose,
	"ceil":      FnCeil,
	"floor":     FnFloor,
	"round":     FnRound,
}

// ParseFn looks up a builtin function by name.
func ParseFn(name string) (FnType, bool) {
	fn, ok := fnNames[name]
	return fn, ok
}

// String returns the function's canonical name.
func (f FnType) String() string {
	for name, fn := range fnNames {
		if fn == f {
			return name
		}
	}
	return "unknown"
}
