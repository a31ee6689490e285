package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/vmsnap/internal/model"
)

func TestWriteReport(t *testing.T) {
	s := model.Snapshot{
		ProcsRunning: 2, ProcsBlocked: 0,
		MemSwpd: 0, MemFree: 812344, MemBuff: 65536, MemCache: 524288,
		SwapSI: 0, SwapSO: 0,
		IOBI: 12, IOBO: 34,
		SystemIn: 150, SystemCS: 300,
		CPUUs: 5, CPUSy: 2, CPUId: 92, CPUWa: 1, CPUSt: 0,
	}
	var buf bytes.Buffer
	if err := WriteReport(&buf, s); err != nil {
		t.Fatal(err)
	}
	want := GroupHeader + "\n" +
		ColumnHeader + "\n" +
		" 2  0      0 812344  65536 524288    0    0    12    34  150  300  5  2 92  1  0\n"
	if buf.String() != want {
		t.Errorf("WriteReport() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestRow_WideValuesPushColumns(t *testing.T) {
	row := Row(model.Snapshot{ProcsRunning: 1234, CPUId: 100})
	if !strings.HasPrefix(row, "1234  0") {
		t.Errorf("Row() = %q, want wide first field intact", row)
	}
	if !strings.Contains(row, "100") {
		t.Errorf("Row() = %q, want 100 rendered", row)
	}
}

func TestColumnHeaderLabels(t *testing.T) {
	fields := strings.Fields(ColumnHeader)
	if len(fields) != model.NumFields {
		t.Fatalf("ColumnHeader has %d labels, want %d", len(fields), model.NumFields)
	}
	for i, f := range fields {
		if f != model.Columns[i] {
			t.Errorf("label %d = %q, want %q", i, f, model.Columns[i])
		}
	}
}
