package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Ввод-вывод
	IOInfo        Code = 1000
	IOReadFailed  Code = 1001
	IOWriteFailed Code = 1002
	IOCacheFailed Code = 1003

	// Структура записей во входном файле
	RecInfo          Code = 2000
	RecUnknownLine   Code = 2001
	RecBadBase       Code = 2002
	RecMissingBlank  Code = 2003
	RecUnexpectedEOF Code = 2004
	RecUnknownOp     Code = 2005
	RecEmptyNumber   Code = 2006

	// Арифметика
	NumInfo             Code = 3000
	NumDivideByZero     Code = 3001
	NumInvalidDigit     Code = 3002
	NumDigitOutOfRange  Code = 3003
	NumExponentTooLarge Code = 3004
	NumUndefined        Code = 3005
	NumSizeLimit        Code = 3006

	// Конфигурация
	CfgInfo         Code = 4000
	CfgParseFailed  Code = 4001
	CfgInvalidValue Code = 4002
	CfgUnknownKey   Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	IOInfo:        "I/O information",
	IOReadFailed:  "Cannot read input file",
	IOWriteFailed: "Cannot write output file",
	IOCacheFailed: "Result cache unavailable",

	RecInfo:          "Record information",
	RecUnknownLine:   "Cannot understand line",
	RecBadBase:       "Base must be in range [2, 16]",
	RecMissingBlank:  "Missing empty line",
	RecUnexpectedEOF: "Unexpected end of file inside a record",
	RecUnknownOp:     "Unknown operation",
	RecEmptyNumber:   "Empty number line",

	NumInfo:             "Arithmetic information",
	NumDivideByZero:     "Division by zero",
	NumInvalidDigit:     "Invalid digit character",
	NumDigitOutOfRange:  "Digit is too big for the base",
	NumExponentTooLarge: "Exponent does not fit in one limb",
	NumUndefined:        "0^0 is undefined",
	NumSizeLimit:        "Result exceeds the size limit",

	CfgInfo:         "Configuration information",
	CfgParseFailed:  "Cannot parse configuration file",
	CfgInvalidValue: "Invalid configuration value",
	CfgUnknownKey:   "Unknown configuration key",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("REC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("NUM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
