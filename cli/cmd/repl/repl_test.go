package repl

import (
	"strings"
	"testing"

	"github.com/ardnew/reportgen/lang"
)

func submit(t *testing.T, m model, mode inputMode, line string) model {
	t.Helper()

	if m.mode != mode {
		m = m.switchToMode(mode)
	}

	m.input.SetValue(line)

	m, _ = m.executeInput()

	return m
}

func TestExecuteCommand_SetUnset(t *testing.T) {
	m := testModel(t, nil)

	m = submit(t, m, modeCtrl, "set Total = 12.50")

	v, ok := m.params["Total"]
	if !ok {
		t.Fatal("set did not define Total")
	}

	if !v.Equal(lang.NewReal(12.5)) {
		t.Errorf("Total = %v (%s), want real 12.5", v, v.Kind())
	}

	m = submit(t, m, modeCtrl, "set Name=Acme Corp")
	if got := m.params["Name"]; !got.Equal(lang.NewString("Acme Corp")) {
		t.Errorf("Name = %v, want string Acme Corp", got)
	}

	m = submit(t, m, modeCtrl, "unset Total")
	if _, ok := m.params["Total"]; ok {
		t.Error("unset did not remove Total")
	}

	m = submit(t, m, modeCtrl, "set novalue")
	if len(m.params) != 1 {
		t.Errorf("malformed set changed params: %v", m.params.Names())
	}

	if got := m.history.Len(); got != 4 {
		t.Errorf("history length = %d, want 4", got)
	}
}

func TestExecuteCommand_Quit(t *testing.T) {
	m := submit(t, testModel(t, nil), modeCtrl, "quit")
	if !m.quitting {
		t.Error("quit did not stop the model")
	}

	if m.View() != "" {
		t.Error("View() should be empty once quitting")
	}
}

func TestExecuteInput_Eval(t *testing.T) {
	m := testModel(t, lang.Params{"Qty": lang.NewInteger(2)})

	m = submit(t, m, modeEval, "Qty * 3")

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	e, err := m.history.Entry(0)
	if err != nil || e.Line != "Qty * 3" || e.Mode != modeEval {
		t.Errorf("history entry = %v, %v", e, err)
	}
}

func TestFormatResult(t *testing.T) {
	got := formatResult(lang.NewString("hi"))
	if !strings.Contains(got, `"hi"`) || !strings.Contains(got, "string") {
		t.Errorf("formatResult() = %q", got)
	}
}

func TestSwitchToMode_KeepsInput(t *testing.T) {
	m := testModel(t, nil)
	m.input.SetValue("1 +")

	m = m.toggleMode()
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("ctrl mode input = %q", m.input.Value())
	}

	m.input.SetValue("hel")
	m = m.toggleMode()

	if m.mode != modeEval || m.input.Value() != "1 +" {
		t.Errorf("eval input = %q, want %q", m.input.Value(), "1 +")
	}

	if m.ctrlText != "hel" {
		t.Errorf("ctrlText = %q, want %q", m.ctrlText, "hel")
	}
}

func TestListFunctions(t *testing.T) {
	got := listFunctions()

	for _, want := range []string{"ROUND(number[, digits])", "also IIF"} {
		if !strings.Contains(got, want) {
			t.Errorf("listFunctions() missing %q", want)
		}
	}
}
