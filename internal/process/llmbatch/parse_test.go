package llmbatch

import (
	"reflect"
	"testing"

	coreerrors "github.com/ametelin/record-sweeper/internal/core/errors"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int
		answers []string
		wantErr error
	}{
		{
			name:    "well formed",
			text:    "1. Первое название\n2. Второе название",
			want:    2,
			answers: []string{"Первое название", "Второе название"},
		},
		{
			name:    "parenthesis numbering",
			text:    "1) Один\n2) Два",
			want:    2,
			answers: []string{"Один", "Два"},
		},
		{
			name:    "blank lines between answers tolerated",
			text:    "1. Один\n\n2. Два\n",
			want:    2,
			answers: []string{"Один", "Два"},
		},
		{
			name:    "too few answers",
			text:    "1. Один",
			want:    3,
			wantErr: coreerrors.ErrReplyCountMismatch,
		},
		{
			name:    "too many answers",
			text:    "1. Один\n2. Два\n3. Три",
			want:    2,
			wantErr: coreerrors.ErrReplyCountMismatch,
		},
		{
			name:    "prose line rejects the whole reply",
			text:    "Вот исправленные названия:\n1. Один",
			want:    1,
			wantErr: coreerrors.ErrUnparsableReply,
		},
		{
			name:    "out of order numbering",
			text:    "2. Два\n1. Один",
			want:    2,
			wantErr: coreerrors.ErrUnparsableReply,
		},
		{
			name:    "empty answer",
			text:    "1.  \n2. Два",
			want:    2,
			wantErr: coreerrors.ErrUnparsableReply,
		},
		{
			name:    "empty reply",
			text:    "",
			want:    1,
			wantErr: coreerrors.ErrReplyCountMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers, err := parseReply(tt.text, tt.want)

			if tt.wantErr != nil {
				if !coreerrors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}

				if answers != nil {
					t.Errorf("failed parse must return no answers, got %v", answers)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !reflect.DeepEqual(answers, tt.answers) {
				t.Errorf("answers = %v, want %v", answers, tt.answers)
			}
		})
	}
}
