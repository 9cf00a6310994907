package diag

import "fmt"

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002

	// Синтаксические
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynBadStatement    Code = 2002 // fixture statement sets no kind or several

	// Семантические
	SemaInfo                 Code = 3000
	SemaIncompleteDefinition Code = 3001 // placeholder survived the final iteration
	SemaBoundNameNotFound    Code = 3002 // required name never declared
	SemaRegistryMiss         Code = 3003 // generated manager was never recorded
	SemaUnexpectedShape      Code = 3004 // hook invoked on a call it does not understand
	SemaCrossModuleManager   Code = 3005 // generated manager lives in another module
	SemaNameAlreadyDefined   Code = 3006
	SemaUnresolvedName       Code = 3007
	SemaIterationLimit       Code = 3008
	SemaUnexpectedCallShape  Code = 3009 // malformed from_queryset/as_manager arguments
	SemaModuleNotFound       Code = 3010
	SemaRevealType           Code = 3011

	// Ошибки I/O
	IOLoadProgram Code = 4001

	// Конфигурация
	CfgInvalid Code = 5001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		LexInfo:                  "Lexical information",
		LexUnknownChar:           "unknown character",
		LexUnterminatedString:    "unterminated string literal",
		SynInfo:                  "Syntax information",
		SynUnexpectedToken:       "unexpected token",
		SynBadStatement:          "malformed statement",
		SemaInfo:                 "Semantic information",
		SemaIncompleteDefinition: "definition is incomplete after the final iteration",
		SemaBoundNameNotFound:    "bound name not found",
		SemaRegistryMiss:         "generated manager is not registered",
		SemaUnexpectedShape:      "unexpected type shape for generated manager call",
		SemaCrossModuleManager:   "generated manager is defined in another module",
		SemaNameAlreadyDefined:   "name already defined",
		SemaUnresolvedName:       "name cannot be resolved",
		SemaIterationLimit:       "maximum semantic analysis iteration count reached",
		SemaUnexpectedCallShape:  "unsupported manager construction call",
		SemaModuleNotFound:       "module not found",
		SemaRevealType:           "revealed type",
		IOLoadProgram:            "failed to load program",
		CfgInvalid:               "invalid configuration",
		ObsInfo:                  "Observability information",
		ObsTimings:               "Pipeline timings",
	}
)

// Тысячи кода задают фазу.
var phasePrefix = [...]string{1: "LEX", 2: "SYN", 3: "SEM", 4: "IO", 5: "CFG", 6: "OBS"}

// ID renders the stable diagnostic id, e.g. SEM3003.
func (c Code) ID() string {
	if k := int(c) / 1000; k > 0 && k < len(phasePrefix) {
		return fmt.Sprintf("%s%04d", phasePrefix[k], int(c))
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
