package datastream

import "fmt"

// AID is the attention identifier byte leading every outbound key
// response. See spec.md §4.3 outbound assembly.
type AID byte

const (
	AIDNone        AID = 0x00
	AIDEnter       AID = 0xF1
	AIDPF1         AID = 0x31
	AIDPF2         AID = 0x32
	AIDPF3         AID = 0x33
	AIDPF4         AID = 0x34
	AIDPF5         AID = 0x35
	AIDPF6         AID = 0x36
	AIDPF7         AID = 0x37
	AIDPF8         AID = 0x38
	AIDPF9         AID = 0x39
	AIDPF10        AID = 0x3A
	AIDPF11        AID = 0x3B
	AIDPF12        AID = 0x3C
	AIDPF13        AID = 0xB1
	AIDPF14        AID = 0xB2
	AIDPF15        AID = 0xB3
	AIDPF16        AID = 0xB4
	AIDPF17        AID = 0xB5
	AIDPF18        AID = 0xB6
	AIDPF19        AID = 0xB7
	AIDPF20        AID = 0xB8
	AIDPF21        AID = 0xB9
	AIDPF22        AID = 0xBA
	AIDPF23        AID = 0xBB
	AIDPF24        AID = 0xBC
	AIDPA1         AID = 0x6C
	AIDPA2         AID = 0x6E
	AIDPA3         AID = 0x6B
	AIDClear       AID = 0xBD
	AIDHelp        AID = 0xF3
	AIDRollUp      AID = 0xF4 // Page down
	AIDRollDown    AID = 0xF5 // Page up
	AIDPrint       AID = 0xF6
	AIDSysRequest  AID = 0xF0
	AIDTestRequest AID = 0x7A
	AIDAttention   AID = 0x7C
)

var aidNames = map[AID]string{
	AIDNone:        "none",
	AIDEnter:       "enter",
	AIDPF1:         "pf1",
	AIDPF2:         "pf2",
	AIDPF3:         "pf3",
	AIDPF4:         "pf4",
	AIDPF5:         "pf5",
	AIDPF6:         "pf6",
	AIDPF7:         "pf7",
	AIDPF8:         "pf8",
	AIDPF9:         "pf9",
	AIDPF10:        "pf10",
	AIDPF11:        "pf11",
	AIDPF12:        "pf12",
	AIDPF13:        "pf13",
	AIDPF14:        "pf14",
	AIDPF15:        "pf15",
	AIDPF16:        "pf16",
	AIDPF17:        "pf17",
	AIDPF18:        "pf18",
	AIDPF19:        "pf19",
	AIDPF20:        "pf20",
	AIDPF21:        "pf21",
	AIDPF22:        "pf22",
	AIDPF23:        "pf23",
	AIDPF24:        "pf24",
	AIDPA1:         "pa1",
	AIDPA2:         "pa2",
	AIDPA3:         "pa3",
	AIDClear:       "clear",
	AIDHelp:        "help",
	AIDRollUp:      "rollup",
	AIDRollDown:    "rolldown",
	AIDPrint:       "print",
	AIDSysRequest:  "sysrequest",
	AIDTestRequest: "testrequest",
	AIDAttention:   "attention",
}

var nameToAID map[string]AID

func init() {
	nameToAID = make(map[string]AID, len(aidNames))
	for aid, name := range aidNames {
		nameToAID[name] = aid
	}
}

// String renders the AID's canonical lowercase workflow-definition name,
// or its raw hex value if unrecognized.
func (a AID) String() string {
	if name, ok := aidNames[a]; ok {
		return name
	}
	return fmt.Sprintf("AID<0x%02X>", byte(a))
}

// ParseAIDName resolves a workflow-definition key name (e.g. "enter",
// "pf3", "clear") to its AID byte.
func ParseAIDName(name string) (AID, bool) {
	aid, ok := nameToAID[name]
	return aid, ok
}
