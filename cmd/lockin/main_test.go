package main

import (
	"reflect"
	"testing"
)

func TestRewriteBlockShortcutArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"lockin"},
			want: []string{"lockin"},
		},
		{
			name: "block id first token",
			in:   []string{"lockin", "block-abc123", "Review", "notes"},
			want: []string{"lockin", "subtasks", "add", "block-abc123", "Review", "notes"},
		},
		{
			name: "block id after value flag",
			in:   []string{"lockin", "--dir", "./tmp", "block-abc123", "x"},
			want: []string{"lockin", "--dir", "./tmp", "subtasks", "add", "block-abc123", "x"},
		},
		{
			name: "block id after equals flag",
			in:   []string{"lockin", "--dir=./tmp", "block-abc123", "x"},
			want: []string{"lockin", "--dir=./tmp", "subtasks", "add", "block-abc123", "x"},
		},
		{
			name: "block id after bool flag",
			in:   []string{"lockin", "--pretty", "block-abc123", "x"},
			want: []string{"lockin", "--pretty", "subtasks", "add", "block-abc123", "x"},
		},
		{
			name: "block id after double dash",
			in:   []string{"lockin", "--", "block-abc123", "x"},
			want: []string{"lockin", "subtasks", "add", "--", "block-abc123", "x"},
		},
		{
			name: "double dash after global flags",
			in:   []string{"lockin", "--dir", "/tmp/p", "--", "block-abc123", "-5 min warmup"},
			want: []string{"lockin", "--dir", "/tmp/p", "subtasks", "add", "--", "block-abc123", "-5 min warmup"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"lockin", "blocks", "rm", "block-abc123"},
			want: []string{"lockin", "blocks", "rm", "block-abc123"},
		},
		{
			name: "bare prefix not rewritten",
			in:   []string{"lockin", "block-"},
			want: []string{"lockin", "block-"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteBlockShortcutArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}
