package cli

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/wakephrase/wakephrase/internal/alarms"
	"github.com/wakephrase/wakephrase/internal/api"
	"github.com/wakephrase/wakephrase/internal/models"
	"github.com/wakephrase/wakephrase/internal/session"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "empty is one-shot", input: "", want: []string{}},
		{name: "whitespace only", input: "   ", want: []string{}},
		{name: "single day", input: "mon", want: []string{"Mon"}},
		{name: "mixed forms", input: "Mon,wednesday,FRI", want: []string{"Mon", "Wed", "Fri"}},
		{name: "spaces around tokens", input: "mon, tue", want: []string{"Mon", "Tue"}},
		{name: "duplicates collapsed", input: "mon,Monday,mon", want: []string{"Mon"}},
		{name: "invalid token", input: "mon,funday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDays(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDays(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDays(%q) failed: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDays(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

type noRemote struct{}

func (noRemote) FetchAlarms(context.Context) ([]models.Alarm, error) { return nil, nil }
func (noRemote) UpsertAlarm(_ context.Context, a models.Alarm) (string, error) {
	return a.ID, nil
}
func (noRemote) DeleteAlarm(context.Context, string) error { return nil }

type noLocal struct{}

func (noLocal) Init() error                      { return nil }
func (noLocal) Load() error                      { return nil }
func (noLocal) Close() error                     { return nil }
func (noLocal) Get(string) (string, bool, error) { return "", false, nil }
func (noLocal) Set(string, string) error         { return nil }
func (noLocal) Delete(string) error              { return nil }
func (noLocal) GetConfigPath() string            { return "" }

type noRec struct{}

func (noRec) Reconcile(a models.Alarm) models.Alarm { return a }
func (noRec) CancelAll(models.Alarm)                {}

func TestResolveAlarm(t *testing.T) {
	store := alarms.NewStore(noRemote{}, noLocal{}, noRec{})
	store.ReplaceAll([]models.Alarm{
		{ID: "abc12345-0000", Time: "07:00"},
		{ID: "abd99999-0000", Time: "08:00"},
	})
	ctx := &Context{Store: store}

	if got, err := ResolveAlarm(ctx, "abc12345-0000"); err != nil || got.ID != "abc12345-0000" {
		t.Errorf("ResolveAlarm(full id) = (%+v, %v), want exact match", got, err)
	}
	if got, err := ResolveAlarm(ctx, "abc"); err != nil || got.ID != "abc12345-0000" {
		t.Errorf("ResolveAlarm(prefix) = (%+v, %v), want unique prefix match", got, err)
	}
	if _, err := ResolveAlarm(ctx, "ab"); err == nil {
		t.Error("ResolveAlarm(ambiguous prefix) should fail")
	}
	if _, err := ResolveAlarm(ctx, "zzz"); err == nil {
		t.Error("ResolveAlarm(unknown) should fail")
	}
}

func TestWarnIfRemote(t *testing.T) {
	if err := WarnIfRemote(nil); err != nil {
		t.Errorf("WarnIfRemote(nil) = %v, want nil", err)
	}
	if err := WarnIfRemote(&api.RemoteError{Status: 500}); err != nil {
		t.Errorf("WarnIfRemote(RemoteError) = %v, want swallowed", err)
	}
	if err := WarnIfRemote(session.ErrNotLoggedIn); err != nil {
		t.Errorf("WarnIfRemote(ErrNotLoggedIn) = %v, want swallowed", err)
	}
	boom := errors.New("disk full")
	if err := WarnIfRemote(boom); !errors.Is(err, boom) {
		t.Errorf("WarnIfRemote(other) = %v, want passed through", err)
	}
}
