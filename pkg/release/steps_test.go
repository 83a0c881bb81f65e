package release

import (
	"strings"
	"testing"
	"time"

	"github.com/qkauia-guy/self-drawn/pkg/config"
)

func TestStepsOrderAndCommands(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ProjectDir = "/srv/app"

	steps := Steps(cfg)
	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}

	want := []struct {
		name string
		argv string
	}{
		{StepInstallDependencies, "pip3 install -r requirements.txt"},
		{StepCollectStatic, "python3 manage.py collectstatic --noinput"},
		{StepApplyMigrations, "python3 manage.py migrate"},
		{StepCreateSuperuser, "python3 manage.py createsuperuser --noinput"},
	}

	for i, w := range want {
		s := steps[i]
		if s.Name != w.name {
			t.Errorf("step %d: expected name %s, got %s", i, w.name, s.Name)
		}
		argv := strings.Join(append([]string{s.Command.Name}, s.Command.Args...), " ")
		if argv != w.argv {
			t.Errorf("step %s: expected %q, got %q", w.name, w.argv, argv)
		}
		if s.Command.Dir != "/srv/app" {
			t.Errorf("step %s: expected project dir, got %q", w.name, s.Command.Dir)
		}
	}
}

func TestStepsOnlySuperuserIsBestEffort(t *testing.T) {
	steps := Steps(config.DefaultConfig())

	for _, s := range steps {
		bestEffort := s.Name == StepCreateSuperuser
		if s.BestEffort != bestEffort {
			t.Errorf("step %s: BestEffort = %v", s.Name, s.BestEffort)
		}
	}
}

func TestStepsSuperuserDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Superuser.Enabled = false

	steps := Steps(cfg)
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	for _, s := range steps {
		if s.Name == StepCreateSuperuser {
			t.Error("superuser step must be omitted when disabled")
		}
	}
}

func TestStepsPropagateTimeoutAndEnv(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StepTimeout = config.Duration(5 * time.Minute)
	cfg.Env = map[string]string{"DJANGO_SETTINGS_MODULE": "selfdrawn.settings"}

	for _, s := range Steps(cfg) {
		if s.Timeout != 5*time.Minute {
			t.Errorf("step %s: expected timeout, got %v", s.Name, s.Timeout)
		}
		if s.Command.Env["DJANGO_SETTINGS_MODULE"] != "selfdrawn.settings" {
			t.Errorf("step %s: expected env to be propagated", s.Name)
		}
	}
}

func TestStepsCustomInterpreters(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Python = "/opt/venv/bin/python"
	cfg.Pip = "/opt/venv/bin/pip"
	cfg.Manifest = "requirements/production.txt"

	steps := Steps(cfg)
	if steps[0].Command.Name != "/opt/venv/bin/pip" {
		t.Errorf("expected custom pip, got %s", steps[0].Command.Name)
	}
	if steps[0].Command.Args[2] != "requirements/production.txt" {
		t.Errorf("expected custom manifest, got %v", steps[0].Command.Args)
	}
	for _, s := range steps[1:] {
		if s.Command.Name != "/opt/venv/bin/python" {
			t.Errorf("step %s: expected custom python, got %s", s.Name, s.Command.Name)
		}
	}
}
