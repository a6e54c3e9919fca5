package common

import "testing"

func TestGetString(t *testing.T) {
	str := "hello"
	tests := []struct {
		name string
		ptr  *string
		want string
	}{
		{
			name: "non-nil pointer",
			ptr:  &str,
			want: "hello",
		},
		{
			name: "nil pointer",
			ptr:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetString(tt.ptr)
			if got != tt.want {
				t.Errorf("GetString() = %q, want %q", got, tt.want)
			}
		})
	}
}
