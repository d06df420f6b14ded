package linker

import (
	"fmt"
	"strings"

	"github.com/kernelsim/kernelsim/internal/logging"
	"github.com/kernelsim/kernelsim/internal/trace"
)

const (
	MachineSize = 512
	ListSize    = 16
)

// moduleWarning is a line attached to a specific point in the memory map
// output (spec §4.4: "appeared in uselist but was not actually used").
type moduleWarning struct {
	at   int // global instruction index this warning prints before
	text string
}

// Linker runs the two-pass relocation and resolution described in spec
// §4.4. All state lives on the struct (no package globals), so a Linker
// instance is only ever used for one program.
type Linker struct {
	sink trace.Sink

	symbolTable map[string]int
	memoryMap   []int
}

// NewLinker builds a Linker that writes its report to sink.
func NewLinker(sink trace.Sink) *Linker {
	if sink == nil {
		sink = trace.NoopSink{}
	}
	return &Linker{sink: sink}
}

// Run executes pass 1 and, if it succeeds, pass 2, against the full
// program text. A *ParseError return means the program is fatally
// malformed and no output beyond the pass 1 error line was produced.
func (l *Linker) Run(source string) error {
	logging.Default().Debug("linker: starting pass1")
	symOut1, err := l.pass1(source)
	if err != nil {
		logging.Default().Warnf("linker: pass1 failed: %v", err)
		l.sink.Emit(err.Error())
		return err
	}
	l.printSymbolTable(symOut1)

	if err := l.pass2(source); err != nil {
		return err
	}
	logging.Default().Info("linker: resolved program", "symbols", len(l.symbolTable))
	return nil
}

// pass1Result carries everything pass 1 produced besides the resolved
// symbol table itself, which is stashed on the Linker for pass 2 to use.
type pass1Result struct {
	order      []string        // final surviving order of defined symbols
	multiple   map[string]bool // symbol -> was multiply defined
	tooBigLogs []string        // "Module N: sym too big ..." lines, in encounter order
}

// pass1 assigns every defined symbol an absolute address, recording
// duplicates (first wins) and oversized relative addresses.
func (l *Linker) pass1(source string) (*pass1Result, *ParseError) {
	tok, tokErr := newTokenizer(strings.NewReader(source))
	if tokErr != nil {
		return nil, &ParseError{Kind: NumExpected} // unreachable: strings.Reader never errors
	}

	var deflist []string
	var defaddr []int
	multiple := make(map[string]bool)
	var tooBig []string

	l.symbolTable = make(map[string]int)

	module := 1
	moduleAddr := 0
	p := 0

	for !tok.eof() {
		defcount, perr := tok.readInt()
		if perr != nil {
			return nil, perr
		}
		if defcount > ListSize {
			return nil, tok.errorHere(TooManyDefInModule)
		}
		for i := 0; i < defcount; i++ {
			symbol, perr := tok.readSymbol()
			if perr != nil {
				return nil, perr
			}
			relAddr, perr := tok.readInt()
			if perr != nil {
				return nil, perr
			}
			deflist = append(deflist, symbol)
			defaddr = append(defaddr, relAddr)
		}

		usecount, perr := tok.readInt()
		if perr != nil {
			return nil, perr
		}
		if usecount > ListSize {
			return nil, tok.errorHere(TooManyUseInModule)
		}
		for i := 0; i < usecount; i++ {
			if _, perr := tok.readSymbol(); perr != nil {
				return nil, perr
			}
		}

		codecount, perr := tok.readInt()
		if perr != nil {
			return nil, perr
		}
		if moduleAddr+codecount > MachineSize {
			return nil, tok.errorHere(TooManyInstr)
		}
		for i := 0; i < codecount; i++ {
			if _, perr := tok.readIAER(); perr != nil {
				return nil, perr
			}
			if _, perr := tok.readInt(); perr != nil {
				return nil, perr
			}
		}

		for p < len(deflist) {
			symbol := deflist[p]

			if _, exists := l.symbolTable[symbol]; !exists {
				l.symbolTable[symbol] = defaddr[p] + moduleAddr
				multiple[symbol] = false
			} else {
				multiple[symbol] = true
				deflist = append(deflist[:p], deflist[p+1:]...)
				defaddr = append(defaddr[:p], defaddr[p+1:]...)
				p--
			}

			relAddr := l.symbolTable[symbol] - moduleAddr
			if relAddr >= codecount {
				tooBig = append(tooBig, fmt.Sprintf(
					"Warning: Module %d: %s too big %d (max=%d) assume zero relative",
					module, symbol, relAddr, codecount-1))
				l.symbolTable[symbol] = moduleAddr
			}

			p++
		}

		module++
		moduleAddr += codecount
	}

	return &pass1Result{order: deflist, multiple: multiple, tooBigLogs: tooBig}, nil
}

func (l *Linker) printSymbolTable(res *pass1Result) {
	for _, w := range res.tooBigLogs {
		l.sink.Emit(w)
	}
	l.sink.Emit("Symbol Table")
	for _, symbol := range res.order {
		line := fmt.Sprintf("%s=%d", symbol, l.symbolTable[symbol])
		if res.multiple[symbol] {
			line += " Error: This variable is multiple times defined; first value used"
		}
		l.sink.Emit(line)
	}
	l.sink.Emit("")
}

// pass2 resolves every instruction's operand and emits the memory map and
// the two unused-symbol warning categories. Pass 1 must have succeeded
// first: pass2 trusts l.symbolTable is populated.
func (l *Linker) pass2(source string) error {
	tok, tokErr := newTokenizer(strings.NewReader(source))
	if tokErr != nil {
		return tokErr
	}

	var deforder [][]string
	usageBySymbol := make(map[string]bool)
	seenDef := make(map[string]bool)
	var instrErr []string
	var modWarnings []moduleWarning

	moduleAddr := 0

	for !tok.eof() {
		defcount, _ := tok.readInt()
		var deflistHere []string
		for i := 0; i < defcount; i++ {
			symbol, _ := tok.readSymbol()
			tok.readInt()
			if !seenDef[symbol] {
				deflistHere = append(deflistHere, symbol)
			}
			if _, ok := usageBySymbol[symbol]; !ok {
				usageBySymbol[symbol] = false
			}
			seenDef[symbol] = true
		}
		deforder = append(deforder, deflistHere)

		usecount, _ := tok.readInt()
		uselist := make([]string, 0, usecount)
		useUsed := make([]bool, usecount)
		for i := 0; i < usecount; i++ {
			symbol, _ := tok.readSymbol()
			uselist = append(uselist, symbol)
		}

		codecount, _ := tok.readInt()
		for i := 0; i < codecount; i++ {
			typ, _ := tok.readIAER()
			instr, _ := tok.readInt()
			opcode := instr / 1000
			operand := instr % 1000
			errMsg := ""

			switch typ {
			case "I":
				if instr >= 10000 {
					opcode, operand = 9, 999
					errMsg = " Error: Illegal immediate value; treated as 9999"
				}
			default:
				if opcode >= 10 {
					opcode, operand = 9, 999
					errMsg = " Error: Illegal opcode; treated as 9999"
				} else {
					switch typ {
					case "R":
						if operand >= codecount {
							operand = 0
							errMsg = " Error: Relative address exceeds module size; zero used"
						}
						operand += moduleAddr
					case "E":
						if operand >= len(uselist) {
							errMsg = " Error: External address exceeds length of uselist; treated as immediate"
						} else if addr, ok := l.symbolTable[uselist[operand]]; ok {
							useUsed[operand] = true
							operand = addr
						} else {
							useUsed[operand] = true
							errMsg = fmt.Sprintf(" Error: %s is not defined; zero used", uselist[operand])
							operand = 0
						}
					default: // "A"
						if operand >= MachineSize {
							operand = 0
							errMsg = " Error: Absolute address exceeds machine size; zero used"
						}
					}
				}
			}

			l.memoryMap = append(l.memoryMap, opcode*1000+operand)
			instrErr = append(instrErr, errMsg)
		}

		boundary := moduleAddr + codecount
		var lines []string
		for i, symbol := range uselist {
			used := useUsed[i]
			usageBySymbol[symbol] = usageBySymbol[symbol] || used
			if !used {
				lines = append(lines, fmt.Sprintf("Warning: Module %d: %s appeared in the uselist but was not actually used", len(deforder), symbol))
			}
		}
		for _, line := range lines {
			modWarnings = append(modWarnings, moduleWarning{at: boundary, text: line})
		}

		moduleAddr += codecount
	}

	l.printMemoryMap(instrErr, modWarnings)

	for i, syms := range deforder {
		for _, symbol := range syms {
			if !usageBySymbol[symbol] {
				l.sink.Emit(fmt.Sprintf("Warning: Module %d: %s was defined but never used", i+1, symbol))
			}
		}
	}
	return nil
}

func (l *Linker) printMemoryMap(instrErr []string, modWarnings []moduleWarning) {
	l.sink.Emit("Memory Map")
	p := 0
	for i, word := range l.memoryMap {
		for p < len(modWarnings) && modWarnings[p].at == i {
			l.sink.Emit(modWarnings[p].text)
			p++
		}
		l.sink.Emit(fmt.Sprintf("%03d: %04d%s", i, word, instrErr[i]))
	}
	for p < len(modWarnings) {
		l.sink.Emit(modWarnings[p].text)
		p++
	}
	l.sink.Emit("")
}
