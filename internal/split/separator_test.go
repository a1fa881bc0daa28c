package split

import (
	"context"
	"reflect"
	"testing"
)

func signalMap(signals map[int]string) SignalFunc {
	return func(ctx context.Context, page int) string {
		return signals[page]
	}
}

func TestCandidatePages(t *testing.T) {
	testCases := []struct {
		name      string
		pageCount int
		want      []int
	}{
		{name: "Single Page", pageCount: 1, want: []int{0}},
		{name: "Two Pages", pageCount: 2, want: []int{0, 1}},
		{name: "Short Document", pageCount: 4, want: []int{0, 1, 2, 3}},
		{name: "Seven Pages", pageCount: 7, want: []int{0, 1, 2, 3, 4, 5, 6}},
		{name: "Ten Pages No Middle", pageCount: 10, want: []int{0, 1, 2, 3, 4, 5, 9}},
		{name: "Eleven Pages Gets Middle", pageCount: 11, want: []int{0, 1, 2, 3, 4, 5, 10}},
		{name: "Long Document", pageCount: 40, want: []int{0, 1, 2, 3, 4, 5, 20, 39}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := candidatePages(tc.pageCount)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("candidatePages(%d) = %v, want %v", tc.pageCount, got, tc.want)
			}
		})
	}
}

func TestDetectSeparator_FirstSignalWins(t *testing.T) {
	signals := map[int]string{
		2: "CODE-A",
		5: "CODE-B",
	}

	got := DetectSeparator(context.Background(), 8, signalMap(signals), "scan.pdf")
	if got != "CODE-A" {
		t.Errorf("DetectSeparator = %q, want %q", got, "CODE-A")
	}
}

func TestDetectSeparator_TrimsSignal(t *testing.T) {
	signals := map[int]string{0: "  77112233  "}

	got := DetectSeparator(context.Background(), 3, signalMap(signals), "scan.pdf")
	if got != "77112233" {
		t.Errorf("DetectSeparator = %q, want %q", got, "77112233")
	}
}

func TestDetectSeparator_SkipsUnprobedMiddle(t *testing.T) {
	// page 7 of a 10 page document is not a candidate; its signal is invisible
	signals := map[int]string{7: "HIDDEN"}

	got := DetectSeparator(context.Background(), 10, signalMap(signals), "batch.pdf")
	if got != "batch" {
		t.Errorf("DetectSeparator = %q, want fallback %q", got, "batch")
	}
}

func TestDetectSeparator_Fallback(t *testing.T) {
	testCases := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "Filename Stem", filename: "invoice_42.pdf", want: "invoice_42"},
		{name: "No Extension", filename: "statement", want: "statement"},
		{name: "Empty Filename", filename: "", want: "document"},
		{name: "Dotfile Keeps Its Name", filename: ".pdf", want: ".pdf"},
		{
			name:     "Stem Capped At Forty Runes",
			filename: "aaaaaaaaaabbbbbbbbbbccccccccccddddddddddeeeeeeeeee.pdf",
			want:     "aaaaaaaaaabbbbbbbbbbccccccccccdddddddddd",
		},
	}

	silent := signalMap(nil)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectSeparator(context.Background(), 5, silent, tc.filename)
			if got != tc.want {
				t.Errorf("DetectSeparator fallback for %q = %q, want %q", tc.filename, got, tc.want)
			}
		})
	}
}

func TestDetectSeparator_NeverEmpty(t *testing.T) {
	for _, pageCount := range []int{1, 2, 7, 23} {
		if got := DetectSeparator(context.Background(), pageCount, signalMap(nil), ""); got == "" {
			t.Errorf("DetectSeparator with %d silent pages returned empty", pageCount)
		}
	}
}
