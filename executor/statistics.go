package executor

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"
)

// Statistics collects execution metrics over a run: instruction mix,
// branch behavior and throughput. Wire its Record method into
// RunOptions.OnStep via a Recorder, or call it directly.
type Statistics struct {
	TotalInstructions uint64
	InstructionCounts map[string]uint64

	BranchCount      uint64
	BranchTakenCount uint64

	ExecutionTime      time.Duration
	InstructionsPerSec float64

	startTime time.Time
}

// NewStatistics creates an empty statistics collector.
func NewStatistics() *Statistics {
	return &Statistics{InstructionCounts: make(map[string]uint64)}
}

// Start marks the beginning of the measured run.
func (s *Statistics) Start() {
	s.startTime = time.Now()
}

// Stop finalizes timing-derived metrics.
func (s *Statistics) Stop() {
	s.ExecutionTime = time.Since(s.startTime)
	if secs := s.ExecutionTime.Seconds(); secs > 0 {
		s.InstructionsPerSec = float64(s.TotalInstructions) / secs
	}
}

// Record accounts for one executed instruction. isBranch marks the
// conditional branches; taken is whether control actually transferred.
func (s *Statistics) Record(mnemonic string, isBranch, taken bool) {
	s.TotalInstructions++
	s.InstructionCounts[mnemonic]++
	if isBranch {
		s.BranchCount++
		if taken {
			s.BranchTakenCount++
		}
	}
}

// sortedMnemonics returns mnemonics by descending count, ties broken
// alphabetically so output is deterministic.
func (s *Statistics) sortedMnemonics() []string {
	names := make([]string, 0, len(s.InstructionCounts))
	for name := range s.InstructionCounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := s.InstructionCounts[names[i]], s.InstructionCounts[names[j]]
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})
	return names
}

// WriteJSON writes the statistics as indented JSON.
func (s *Statistics) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		TotalInstructions  uint64            `json:"total_instructions"`
		InstructionCounts  map[string]uint64 `json:"instruction_counts"`
		BranchCount        uint64            `json:"branch_count"`
		BranchTakenCount   uint64            `json:"branch_taken_count"`
		ExecutionTimeMs    float64           `json:"execution_time_ms"`
		InstructionsPerSec float64           `json:"instructions_per_sec"`
	}{
		s.TotalInstructions, s.InstructionCounts,
		s.BranchCount, s.BranchTakenCount,
		float64(s.ExecutionTime.Microseconds()) / 1000.0,
		s.InstructionsPerSec,
	})
}

// WriteCSV writes one mnemonic/count row per instruction type.
func (s *Statistics) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"mnemonic", "count"}); err != nil {
		return err
	}
	for _, name := range s.sortedMnemonics() {
		if err := cw.Write([]string{name, strconv.FormatUint(s.InstructionCounts[name], 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText writes a human-readable summary.
func (s *Statistics) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "instructions executed: %d\n", s.TotalInstructions); err != nil {
		return err
	}
	if s.BranchCount > 0 {
		fmt.Fprintf(w, "branches: %d (%d taken)\n", s.BranchCount, s.BranchTakenCount)
	}
	if s.ExecutionTime > 0 {
		fmt.Fprintf(w, "time: %v (%.0f instructions/sec)\n", s.ExecutionTime, s.InstructionsPerSec)
	}
	fmt.Fprintln(w, "instruction mix:")
	for _, name := range s.sortedMnemonics() {
		fmt.Fprintf(w, "  %-10s %d\n", name, s.InstructionCounts[name])
	}
	return nil
}

// isBranchMnemonic reports whether a mnemonic is a conditional branch
// for branch accounting.
func isBranchMnemonic(name string) bool {
	switch name {
	case "beq", "bne", "blt", "bge", "bltu", "bgeu":
		return true
	}
	return false
}

// Recorder adapts Statistics to RunOptions.OnStep.
func (s *Statistics) Recorder() func(StepInfo) {
	return func(info StepInfo) {
		name := "?"
		if m, err := MnemonicOf(info.Word); err == nil {
			name = m
		}
		s.Record(name, isBranchMnemonic(name), info.Jumped)
	}
}
