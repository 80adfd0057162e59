package streamauth

import "testing"

func TestExtractKey(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		want   string
		wantOK bool
	}{
		{
			name:   "key in query string",
			req:    Request{Query: "api_key=mtx_abc123"},
			want:   "mtx_abc123",
			wantOK: true,
		},
		{
			name:   "key in query string with trailing params",
			req:    Request{Query: "api_key=mtx_abc123&format=ts"},
			want:   "mtx_abc123",
			wantOK: true,
		},
		{
			name:   "key in query string with leading params",
			req:    Request{Query: "format=ts&api_key=mtx_abc123"},
			want:   "mtx_abc123",
			wantOK: true,
		},
		{
			name:   "query wins over username",
			req:    Request{Query: "api_key=mtx_fromquery", User: "mtx_fromuser"},
			want:   "mtx_fromquery",
			wantOK: true,
		},
		{
			name:   "empty query value does not fall through",
			req:    Request{Query: "api_key=", User: "mtx_fromuser"},
			wantOK: false,
		},
		{
			name:   "key as username",
			req:    Request{User: "mtx_abc123"},
			want:   "mtx_abc123",
			wantOK: true,
		},
		{
			name:   "key as password",
			req:    Request{Password: "mtx_abc123"},
			want:   "mtx_abc123",
			wantOK: true,
		},
		{
			name:   "username wins over password",
			req:    Request{User: "mtx_fromuser", Password: "mtx_frompass"},
			want:   "mtx_fromuser",
			wantOK: true,
		},
		{
			name:   "human username ignored",
			req:    Request{User: "alice", Password: "hunter2"},
			wantOK: false,
		},
		{
			name:   "no carriers",
			req:    Request{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractKey(&tt.req, "mtx_")
			if ok != tt.wantOK {
				t.Fatalf("ExtractKey() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
