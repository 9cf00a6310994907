package token

// Kind represents the category of a token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the expression.
	EOF

	Ident     // name
	StringLit // "text" or 'text'
	Ellipsis  // ...

	Dot      // .
	Comma    // ,
	Colon    // :
	Assign   // =
	Pipe     // |
	Star     // *
	StarStar // **
	Arrow    // ->
	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
)

var kindNames = [...]string{
	Invalid:   "invalid",
	EOF:       "end of expression",
	Ident:     "identifier",
	StringLit: "string",
	Ellipsis:  "'...'",
	Dot:       "'.'",
	Comma:     "','",
	Colon:     "':'",
	Assign:    "'='",
	Pipe:      "'|'",
	Star:      "'*'",
	StarStar:  "'**'",
	Arrow:     "'->'",
	LParen:    "'('",
	RParen:    "')'",
	LBracket:  "'['",
	RBracket:  "']'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}
