package runners

import "testing"

func TestRenderShellLine(t *testing.T) {
	tests := []struct {
		name    string
		command Command
		want    string
	}{
		{
			name:    "plain command",
			command: Command{Name: "pip3", Args: []string{"install", "-r", "requirements.txt"}},
			want:    "pip3 install -r requirements.txt",
		},
		{
			name:    "with working directory",
			command: Command{Name: "python3", Args: []string{"manage.py", "migrate"}, Dir: "/srv/app"},
			want:    "cd /srv/app && python3 manage.py migrate",
		},
		{
			name: "with environment",
			command: Command{
				Name: "python3",
				Args: []string{"manage.py", "createsuperuser", "--noinput"},
				Env:  map[string]string{"B": "two", "A": "one"},
			},
			want: "A=one B=two python3 manage.py createsuperuser --noinput",
		},
		{
			name:    "argument with spaces is quoted",
			command: Command{Name: "echo", Args: []string{"hello world"}},
			want:    "echo 'hello world'",
		},
		{
			name:    "directory with spaces is quoted",
			command: Command{Name: "pwd", Dir: "/srv/my app"},
			want:    "cd '/srv/my app' && pwd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderShellLine(tt.command); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"plain", "plain"},
		{"has space", "'has space'"},
		{"it's", `'it'\''s'`},
		{"$HOME", "'$HOME'"},
	}

	for _, tt := range tests {
		if got := shellQuote(tt.in); got != tt.want {
			t.Errorf("shellQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
