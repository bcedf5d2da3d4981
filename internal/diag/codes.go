package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Syntax
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectExpression   Code = 2003
	SynExpectType         Code = 2004
	SynUnclosedParen      Code = 2005
	SynUnclosedBrace      Code = 2006
	SynUnclosedBracket    Code = 2007
	SynForMissingIn       Code = 2008
	SynUnexpectedTopLevel Code = 2009
	SynExpectParamName    Code = 2010
	SynExpectFieldName    Code = 2011

	// Ownership analysis. All of these are advisory: the pass degrades to a
	// conservative decision and lets the target compiler surface real
	// conflicts.
	OwnInfo                  Code = 3000
	OwnShareHandleClone      Code = 3001
	OwnPartialMove           Code = 3002
	OwnMultiUseInExpression  Code = 3003
	OwnUnresolvedCallee      Code = 3004
	OwnDuplicateSignature    Code = 3005
	OwnUnsupportedCloneShape Code = 3006

	// Driver / I/O
	IOInfo          Code = 9000
	IOLoadFileError Code = 9001
)

func (c Code) String() string {
	return fmt.Sprintf("ZPH%04d", uint16(c))
}
