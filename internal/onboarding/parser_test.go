package onboarding

import (
	"reflect"
	"testing"
)

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  QuestionSet
	}{
		{"empty", "", QuestionSet{}},
		{"whitespace only", "   \n\t ", QuestionSet{}},
		{"two inline", "1. Q1 2. Q2", QuestionSet{"Q1", "Q2"}},
		{
			"multiline",
			"1. What is your monthly income?\n2. Do you carry any debt?\n3. When do you plan to retire?\n",
			QuestionSet{"What is your monthly income?", "Do you carry any debt?", "When do you plan to retire?"},
		},
		{"preamble dropped", "Please answer:\n1. First\n2. Second", QuestionSet{"First", "Second"}},
		{"no markers", "Tell us about yourself.", QuestionSet{}},
		{"empty segment skipped", "1. 2. Only one", QuestionSet{"Only one"}},
		{"decimal not a marker", "1. Do you save 2.5% of income? 2. Any debt?", QuestionSet{"Do you save 2.5% of income?", "Any debt?"}},
		{"double digit markers", "10. Tenth 11. Eleventh", QuestionSet{"Tenth", "Eleventh"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuestions(tt.input)
			if got == nil {
				t.Fatal("ParseQuestions returned nil, want empty set")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQuestions(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseQuestions_CountMatchesMarkers(t *testing.T) {
	for k := 0; k <= 12; k++ {
		text := "Intro text. "
		for i := 1; i <= k; i++ {
			text += itoa(i) + ". Question number " + itoa(i) + "? "
		}
		got := ParseQuestions(text)
		if got.Len() != k {
			t.Fatalf("k=%d: got %d questions", k, got.Len())
		}
		for i, q := range got {
			want := "Question number " + itoa(i+1) + "?"
			if q != want {
				t.Errorf("k=%d: question %d = %q, want %q", k, i, q, want)
			}
		}
	}
}

func itoa(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return itoa(i/10) + string(rune('0'+i%10))
}

func TestPreamble(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Please answer:\n1. First", "Please answer:"},
		{"1. First", ""},
		{"  No numbers here  ", "No numbers here"},
	}
	for _, tt := range tests {
		if got := Preamble(tt.input); got != tt.want {
			t.Errorf("Preamble(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestQuestionSetEmpty(t *testing.T) {
	if !ParseQuestions("").Empty() {
		t.Error("Empty() = false for empty input, want true")
	}
	if ParseQuestions("1. Q").Empty() {
		t.Error("Empty() = true for one question, want false")
	}
}
