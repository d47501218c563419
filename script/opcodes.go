package script

import "fmt"

// Opcode is a single script instruction byte.
type Opcode byte

// Opcodes. Byte values 0x01-0x4b are direct data pushes of that many bytes
// and have no named constant.
const (
	Op0                   Opcode = 0x00
	OpPUSHDATA1           Opcode = 0x4c
	OpPUSHDATA2           Opcode = 0x4d
	OpPUSHDATA4           Opcode = 0x4e
	Op1NEGATE             Opcode = 0x4f
	OpRESERVED            Opcode = 0x50
	Op1                   Opcode = 0x51
	Op2                   Opcode = 0x52
	Op3                   Opcode = 0x53
	Op4                   Opcode = 0x54
	Op5                   Opcode = 0x55
	Op6                   Opcode = 0x56
	Op7                   Opcode = 0x57
	Op8                   Opcode = 0x58
	Op9                   Opcode = 0x59
	Op10                  Opcode = 0x5a
	Op11                  Opcode = 0x5b
	Op12                  Opcode = 0x5c
	Op13                  Opcode = 0x5d
	Op14                  Opcode = 0x5e
	Op15                  Opcode = 0x5f
	Op16                  Opcode = 0x60
	OpNOP                 Opcode = 0x61
	OpVER                 Opcode = 0x62
	OpIF                  Opcode = 0x63
	OpNOTIF               Opcode = 0x64
	OpVERIF               Opcode = 0x65
	OpVERNOTIF            Opcode = 0x66
	OpELSE                Opcode = 0x67
	OpENDIF               Opcode = 0x68
	OpVERIFY              Opcode = 0x69
	OpRETURN              Opcode = 0x6a
	OpTOALTSTACK          Opcode = 0x6b
	OpFROMALTSTACK        Opcode = 0x6c
	Op2DROP               Opcode = 0x6d
	Op2DUP                Opcode = 0x6e
	Op3DUP                Opcode = 0x6f
	Op2OVER               Opcode = 0x70
	Op2ROT                Opcode = 0x71
	Op2SWAP               Opcode = 0x72
	OpIFDUP               Opcode = 0x73
	OpDEPTH               Opcode = 0x74
	OpDROP                Opcode = 0x75
	OpDUP                 Opcode = 0x76
	OpNIP                 Opcode = 0x77
	OpOVER                Opcode = 0x78
	OpPICK                Opcode = 0x79
	OpROLL                Opcode = 0x7a
	OpROT                 Opcode = 0x7b
	OpSWAP                Opcode = 0x7c
	OpTUCK                Opcode = 0x7d
	OpCAT                 Opcode = 0x7e
	OpSUBSTR              Opcode = 0x7f
	OpLEFT                Opcode = 0x80
	OpRIGHT               Opcode = 0x81
	OpSIZE                Opcode = 0x82
	OpINVERT              Opcode = 0x83
	OpAND                 Opcode = 0x84
	OpOR                  Opcode = 0x85
	OpXOR                 Opcode = 0x86
	OpEQUAL               Opcode = 0x87
	OpEQUALVERIFY         Opcode = 0x88
	OpRESERVED1           Opcode = 0x89
	OpRESERVED2           Opcode = 0x8a
	Op1ADD                Opcode = 0x8b
	Op1SUB                Opcode = 0x8c
	Op2MUL                Opcode = 0x8d
	Op2DIV                Opcode = 0x8e
	OpNEGATE              Opcode = 0x8f
	OpABS                 Opcode = 0x90
	OpNOT                 Opcode = 0x91
	Op0NOTEQUAL           Opcode = 0x92
	OpADD                 Opcode = 0x93
	OpSUB                 Opcode = 0x94
	OpMUL                 Opcode = 0x95
	OpDIV                 Opcode = 0x96
	OpMOD                 Opcode = 0x97
	OpLSHIFT              Opcode = 0x98
	OpRSHIFT              Opcode = 0x99
	OpBOOLAND             Opcode = 0x9a
	OpBOOLOR              Opcode = 0x9b
	OpNUMEQUAL            Opcode = 0x9c
	OpNUMEQUALVERIFY      Opcode = 0x9d
	OpNUMNOTEQUAL         Opcode = 0x9e
	OpLESSTHAN            Opcode = 0x9f
	OpGREATERTHAN         Opcode = 0xa0
	OpLESSTHANOREQUAL     Opcode = 0xa1
	OpGREATERTHANOREQUAL  Opcode = 0xa2
	OpMIN                 Opcode = 0xa3
	OpMAX                 Opcode = 0xa4
	OpWITHIN              Opcode = 0xa5
	OpRIPEMD160           Opcode = 0xa6
	OpSHA1                Opcode = 0xa7
	OpSHA256              Opcode = 0xa8
	OpHASH160             Opcode = 0xa9
	OpHASH256             Opcode = 0xaa
	OpCODESEPARATOR       Opcode = 0xab
	OpCHECKSIG            Opcode = 0xac
	OpCHECKSIGVERIFY      Opcode = 0xad
	OpCHECKMULTISIG       Opcode = 0xae
	OpCHECKMULTISIGVERIFY Opcode = 0xaf
	OpNOP1                Opcode = 0xb0
	OpCHECKLOCKTIMEVERIFY Opcode = 0xb1
	OpCHECKSEQUENCEVERIFY Opcode = 0xb2
	OpNOP4                Opcode = 0xb3
	OpNOP5                Opcode = 0xb4
	OpNOP6                Opcode = 0xb5
	OpNOP7                Opcode = 0xb6
	OpNOP8                Opcode = 0xb7
	OpNOP9                Opcode = 0xb8
	OpNOP10               Opcode = 0xb9
)

// Aliases.
const (
	OpFALSE = Op0
	OpTRUE  = Op1
)

var opcodeNames = map[Opcode]string{
	Op0:                   "OP_0",
	OpPUSHDATA1:           "OP_PUSHDATA1",
	OpPUSHDATA2:           "OP_PUSHDATA2",
	OpPUSHDATA4:           "OP_PUSHDATA4",
	Op1NEGATE:             "OP_1NEGATE",
	OpRESERVED:            "OP_RESERVED",
	Op1:                   "OP_1",
	Op2:                   "OP_2",
	Op3:                   "OP_3",
	Op4:                   "OP_4",
	Op5:                   "OP_5",
	Op6:                   "OP_6",
	Op7:                   "OP_7",
	Op8:                   "OP_8",
	Op9:                   "OP_9",
	Op10:                  "OP_10",
	Op11:                  "OP_11",
	Op12:                  "OP_12",
	Op13:                  "OP_13",
	Op14:                  "OP_14",
	Op15:                  "OP_15",
	Op16:                  "OP_16",
	OpNOP:                 "OP_NOP",
	OpVER:                 "OP_VER",
	OpIF:                  "OP_IF",
	OpNOTIF:               "OP_NOTIF",
	OpVERIF:               "OP_VERIF",
	OpVERNOTIF:            "OP_VERNOTIF",
	OpELSE:                "OP_ELSE",
	OpENDIF:               "OP_ENDIF",
	OpVERIFY:              "OP_VERIFY",
	OpRETURN:              "OP_RETURN",
	OpTOALTSTACK:          "OP_TOALTSTACK",
	OpFROMALTSTACK:        "OP_FROMALTSTACK",
	Op2DROP:               "OP_2DROP",
	Op2DUP:                "OP_2DUP",
	Op3DUP:                "OP_3DUP",
	Op2OVER:               "OP_2OVER",
	Op2ROT:                "OP_2ROT",
	Op2SWAP:               "OP_2SWAP",
	OpIFDUP:               "OP_IFDUP",
	OpDEPTH:               "OP_DEPTH",
	OpDROP:                "OP_DROP",
	OpDUP:                 "OP_DUP",
	OpNIP:                 "OP_NIP",
	OpOVER:                "OP_OVER",
	OpPICK:                "OP_PICK",
	OpROLL:                "OP_ROLL",
	OpROT:                 "OP_ROT",
	OpSWAP:                "OP_SWAP",
	OpTUCK:                "OP_TUCK",
	OpCAT:                 "OP_CAT",
	OpSUBSTR:              "OP_SUBSTR",
	OpLEFT:                "OP_LEFT",
	OpRIGHT:               "OP_RIGHT",
	OpSIZE:                "OP_SIZE",
	OpINVERT:              "OP_INVERT",
	OpAND:                 "OP_AND",
	OpOR:                  "OP_OR",
	OpXOR:                 "OP_XOR",
	OpEQUAL:               "OP_EQUAL",
	OpEQUALVERIFY:         "OP_EQUALVERIFY",
	OpRESERVED1:           "OP_RESERVED1",
	OpRESERVED2:           "OP_RESERVED2",
	Op1ADD:                "OP_1ADD",
	Op1SUB:                "OP_1SUB",
	Op2MUL:                "OP_2MUL",
	Op2DIV:                "OP_2DIV",
	OpNEGATE:              "OP_NEGATE",
	OpABS:                 "OP_ABS",
	OpNOT:                 "OP_NOT",
	Op0NOTEQUAL:           "OP_0NOTEQUAL",
	OpADD:                 "OP_ADD",
	OpSUB:                 "OP_SUB",
	OpMUL:                 "OP_MUL",
	OpDIV:                 "OP_DIV",
	OpMOD:                 "OP_MOD",
	OpLSHIFT:              "OP_LSHIFT",
	OpRSHIFT:              "OP_RSHIFT",
	OpBOOLAND:             "OP_BOOLAND",
	OpBOOLOR:              "OP_BOOLOR",
	OpNUMEQUAL:            "OP_NUMEQUAL",
	OpNUMEQUALVERIFY:      "OP_NUMEQUALVERIFY",
	OpNUMNOTEQUAL:         "OP_NUMNOTEQUAL",
	OpLESSTHAN:            "OP_LESSTHAN",
	OpGREATERTHAN:         "OP_GREATERTHAN",
	OpLESSTHANOREQUAL:     "OP_LESSTHANOREQUAL",
	OpGREATERTHANOREQUAL:  "OP_GREATERTHANOREQUAL",
	OpMIN:                 "OP_MIN",
	OpMAX:                 "OP_MAX",
	OpWITHIN:              "OP_WITHIN",
	OpRIPEMD160:           "OP_RIPEMD160",
	OpSHA1:                "OP_SHA1",
	OpSHA256:              "OP_SHA256",
	OpHASH160:             "OP_HASH160",
	OpHASH256:             "OP_HASH256",
	OpCODESEPARATOR:       "OP_CODESEPARATOR",
	OpCHECKSIG:            "OP_CHECKSIG",
	OpCHECKSIGVERIFY:      "OP_CHECKSIGVERIFY",
	OpCHECKMULTISIG:       "OP_CHECKMULTISIG",
	OpCHECKMULTISIGVERIFY: "OP_CHECKMULTISIGVERIFY",
	OpNOP1:                "OP_NOP1",
	OpCHECKLOCKTIMEVERIFY: "OP_CHECKLOCKTIMEVERIFY",
	OpCHECKSEQUENCEVERIFY: "OP_CHECKSEQUENCEVERIFY",
	OpNOP4:                "OP_NOP4",
	OpNOP5:                "OP_NOP5",
	OpNOP6:                "OP_NOP6",
	OpNOP7:                "OP_NOP7",
	OpNOP8:                "OP_NOP8",
	OpNOP9:                "OP_NOP9",
	OpNOP10:               "OP_NOP10",
}

// String returns the opcode's conventional name, e.g. "OP_CHECKSIG".
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	if op >= 0x01 && op <= 0x4b {
		return fmt.Sprintf("OP_DATA_%d", op)
	}
	return fmt.Sprintf("OP_UNKNOWN_0x%02x", byte(op))
}

// isSmallInt reports whether op pushes a number from 1 to 16.
func isSmallInt(op Opcode) bool { return op >= Op1 && op <= Op16 }

// isDisabled reports whether op is one of the opcodes that make a script
// invalid on execution.
func isDisabled(op Opcode) bool {
	switch op {
	case OpCAT, OpSUBSTR, OpLEFT, OpRIGHT, OpINVERT, OpAND, OpOR, OpXOR,
		Op2MUL, Op2DIV, OpMUL, OpDIV, OpMOD, OpLSHIFT, OpRSHIFT:
		return true
	}
	return false
}
