package telnet

import "fmt"

// Wire bytes for the single-byte Telnet commands and the negotiation/
// subnegotiation framing bytes, per RFC 854.
const (
	EOR  byte = 239
	SE   byte = 240
	NOP  byte = 241
	DM   byte = 242
	BRK  byte = 243
	IP   byte = 244
	AO   byte = 245
	AYT  byte = 246
	EC   byte = 247
	EL   byte = 248
	GA   byte = 249
	SB   byte = 250
	WILL byte = 251
	WONT byte = 252
	DO   byte = 253
	DONT byte = 254
	IAC  byte = 255
)

var commandNames = map[byte]string{
	EOR:  "EOR",
	SE:   "SE",
	NOP:  "NOP",
	DM:   "DM",
	BRK:  "BRK",
	IP:   "IP",
	AO:   "AO",
	AYT:  "AYT",
	EC:   "EC",
	EL:   "EL",
	GA:   "GA",
	SB:   "SB",
	WILL: "WILL",
	WONT: "WONT",
	DO:   "DO",
	DONT: "DONT",
	IAC:  "IAC",
}

func commandName(b byte) string {
	if name, ok := commandNames[b]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", b)
}

// Option identifies a Telnet option by its single byte code, per the IANA
// telnet-options registry. The zero value, Option(0), is BINARY TRANSMISSION
// and is a legitimate option code, not a sentinel for "no option".
type Option uint8

// Well-known option codes, named per the IANA telnet-options registry. The
// option table and negotiation engine operate on any of the 256 possible
// codes; naming is cosmetic and used only for logging/debugging.
const (
	OptionBinaryTransmission   Option = 0
	OptionEcho                 Option = 1
	OptionReconnection         Option = 2
	OptionSuppressGoAhead      Option = 3
	OptionApproxMessageSize    Option = 4
	OptionStatus               Option = 5
	OptionTimingMark           Option = 6
	OptionRCTE                 Option = 7
	OptionOutputLineWidth      Option = 8
	OptionOutputPageSize       Option = 9
	OptionOutputCRDisposition  Option = 10
	OptionOutputHTabStops      Option = 11
	OptionOutputHTabDisp       Option = 12
	OptionOutputFFDisposition  Option = 13
	OptionOutputVTabStops      Option = 14
	OptionOutputVTabDisp       Option = 15
	OptionOutputLFDisposition  Option = 16
	OptionExtendedASCII        Option = 17
	OptionLogout               Option = 18
	OptionByteMacro            Option = 19
	OptionDataEntryTerminal    Option = 20
	OptionSUPDUP               Option = 21
	OptionSUPDUPOutput         Option = 22
	OptionSendLocation         Option = 23
	OptionTerminalType         Option = 24
	OptionEndOfRecord          Option = 25
	OptionTACACSUserID         Option = 26
	OptionOutputMarking        Option = 27
	OptionTerminalLocation     Option = 28
	OptionRegime3270           Option = 29
	OptionX3Pad                Option = 30
	OptionNAWS                 Option = 31
	OptionTerminalSpeed        Option = 32
	OptionRemoteFlowControl    Option = 33
	OptionLinemode             Option = 34
	OptionXDisplocation        Option = 35
	OptionOldEnvironment       Option = 36
	OptionAuthentication       Option = 37
	OptionEncryption           Option = 38
	OptionNewEnvironment       Option = 39
	OptionTN3270E              Option = 40
	OptionXAuth                Option = 41
	OptionCharset              Option = 42
	OptionTelnetRSP            Option = 43
	OptionComPortControl       Option = 44
	OptionSuppressLocalEcho    Option = 45
	OptionStartTLS             Option = 46
	OptionKermit               Option = 47
	OptionSendURL              Option = 48
	OptionForwardX             Option = 49
	OptionMSDP                 Option = 69
	OptionMSSP                 Option = 70
	OptionCompress1            Option = 85
	OptionCompress2            Option = 86
	OptionZMP                  Option = 93
	OptionPragmaLogin          Option = 138
	OptionSSPILogin            Option = 139
	OptionPragmaHeartbeat      Option = 140
	OptionGMCP                 Option = 201
	OptionExtendedOptionsList  Option = 255
)

var optionNames = map[Option]string{
	OptionBinaryTransmission:  "BINARY",
	OptionEcho:                "ECHO",
	OptionReconnection:        "RECONNECTION",
	OptionSuppressGoAhead:     "SUPPRESS-GO-AHEAD",
	OptionApproxMessageSize:   "APPROX-MESSAGE-SIZE",
	OptionStatus:              "STATUS",
	OptionTimingMark:          "TIMING-MARK",
	OptionRCTE:                "RCTE",
	OptionOutputLineWidth:     "NAOL",
	OptionOutputPageSize:      "NAOP",
	OptionOutputCRDisposition: "NAOCRD",
	OptionOutputHTabStops:     "NAOHTS",
	OptionOutputHTabDisp:      "NAOHTD",
	OptionOutputFFDisposition: "NAOFFD",
	OptionOutputVTabStops:     "NAOVTS",
	OptionOutputVTabDisp:      "NAOVTD",
	OptionOutputLFDisposition: "NAOLFD",
	OptionExtendedASCII:       "EXTEND-ASCII",
	OptionLogout:              "LOGOUT",
	OptionByteMacro:           "BM",
	OptionDataEntryTerminal:   "DET",
	OptionSUPDUP:              "SUPDUP",
	OptionSUPDUPOutput:        "SUPDUP-OUTPUT",
	OptionSendLocation:        "SEND-LOCATION",
	OptionTerminalType:        "TERMINAL-TYPE",
	OptionEndOfRecord:         "END-OF-RECORD",
	OptionTACACSUserID:        "TACACS-UID",
	OptionOutputMarking:       "OUTPUT-MARKING",
	OptionTerminalLocation:    "TTYLOC",
	OptionRegime3270:          "3270-REGIME",
	OptionX3Pad:               "X.3-PAD",
	OptionNAWS:                "NAWS",
	OptionTerminalSpeed:       "TERMINAL-SPEED",
	OptionRemoteFlowControl:   "TOGGLE-FLOW-CONTROL",
	OptionLinemode:            "LINEMODE",
	OptionXDisplocation:       "X-DISPLAY-LOCATION",
	OptionOldEnvironment:      "OLD-ENVIRON",
	OptionAuthentication:      "AUTHENTICATION",
	OptionEncryption:          "ENCRYPT",
	OptionNewEnvironment:      "NEW-ENVIRON",
	OptionTN3270E:             "TN3270E",
	OptionXAuth:               "XAUTH",
	OptionCharset:             "CHARSET",
	OptionTelnetRSP:           "TELNET-RSP",
	OptionComPortControl:      "COM-PORT-CONTROL",
	OptionSuppressLocalEcho:   "SUPPRESS-LOCAL-ECHO",
	OptionStartTLS:            "START-TLS",
	OptionKermit:              "KERMIT",
	OptionSendURL:             "SEND-URL",
	OptionForwardX:            "FORWARD-X",
	OptionMSDP:                "MSDP",
	OptionMSSP:                "MSSP",
	OptionCompress1:           "COMPRESS",
	OptionCompress2:           "COMPRESS2",
	OptionZMP:                 "ZMP",
	OptionPragmaLogin:         "PRAGMA-LOGON",
	OptionSSPILogin:           "SSPI-LOGON",
	OptionPragmaHeartbeat:     "PRAGMA-HEARTBEAT",
	OptionGMCP:                "GMCP",
	OptionExtendedOptionsList: "EXOPL",
}

// String renders the option's well-known name, or "unknown(N)" for a code
// this package has no name for. It round-trips with ParseOptionName.
func (o Option) String() string {
	if name, ok := optionNames[o]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(o))
}

// ParseOptionName recovers an Option from the string produced by String,
// including the "unknown(N)" fallback form.
func ParseOptionName(name string) (Option, bool) {
	for code, known := range optionNames {
		if known == name {
			return code, true
		}
	}

	var code uint8
	if n, err := fmt.Sscanf(name, "unknown(%d)", &code); err == nil && n == 1 {
		return Option(code), true
	}

	return 0, false
}
