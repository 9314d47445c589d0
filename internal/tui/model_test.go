package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/John-Robertt/moviecat/internal/catalog"
	"github.com/John-Robertt/moviecat/internal/domain"
)

func records() []domain.Movie {
	return []domain.Movie{
		{ID: "1", Title: "A", Languages: []string{"English"}, Countries: []string{"USA"}, Genres: []string{"Drama"}},
		{ID: "2", Title: "B", Languages: []string{"French"}, Countries: []string{"France"}, Genres: []string{"Drama"}},
	}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		mm, ok := next.(Model)
		if !ok {
			t.Fatalf("Update 返回了意外的类型 %T", next)
		}
		m = mm
	}
	return m
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	return send(t, New(context.Background(), nil, ""), loadedMsg{ev: catalog.LoadSucceeded{Records: records()}})
}

var (
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyRight    = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft     = tea.KeyMsg{Type: tea.KeyLeft}
)

func TestInit_RunsLoad(t *testing.T) {
	called := 0
	m := New(context.Background(), func(ctx context.Context) catalog.Event {
		called++
		return catalog.LoadSucceeded{Records: records()}
	}, "")

	msg := m.loadCmd()()
	if called != 1 {
		t.Fatalf("期望加载一次，实际 %d", called)
	}
	m = send(t, m, msg)
	if m.State().View() != catalog.ViewGrid {
		t.Fatalf("期望 grid，实际 %v", m.State().View())
	}
}

func TestView_Loading(t *testing.T) {
	m := New(context.Background(), nil, "")
	out := m.View()
	if !strings.Contains(out, "Loading movies") {
		t.Fatalf("加载中应显示提示：\n%s", out)
	}
	if got := strings.Count(out, "░"); got < catalog.PlaceholderCount {
		t.Fatalf("期望至少 %d 个占位块，实际 %d", catalog.PlaceholderCount, got)
	}
}

func TestView_Error(t *testing.T) {
	m := send(t, New(context.Background(), nil, ""), loadedMsg{ev: catalog.LoadFailed{Err: errors.New("HTTP 500")}})
	out := m.View()
	if !strings.Contains(out, "HTTP 500") {
		t.Fatalf("错误视图应包含原因：\n%s", out)
	}
	if strings.Contains(out, "Loading movies") {
		t.Fatalf("错误视图不应包含加载提示")
	}
}

func TestKeys_CycleFocusedFilter(t *testing.T) {
	m := loadedModel(t)

	// 焦点默认在 language：→ 选中第一个选项。
	m = send(t, m, keyRight)
	if got := m.State().Filters.Language; got != "English" {
		t.Fatalf("期望 language=English，实际 %q", got)
	}
	m = send(t, m, keyRight)
	if got := m.State().Filters.Language; got != "French" {
		t.Fatalf("期望 language=French，实际 %q", got)
	}
	if len(m.State().Visible) != 1 || m.State().Visible[0].ID != "2" {
		t.Fatalf("可见集合不正确：%+v", m.State().Visible)
	}

	// 再 → 回到“未选择”。
	m = send(t, m, keyRight)
	if m.State().Filters.Active() {
		t.Fatalf("期望没有激活的过滤：%+v", m.State().Filters)
	}

	// ← 从“未选择”绕回最后一个选项。
	m = send(t, m, keyLeft)
	if got := m.State().Filters.Language; got != "French" {
		t.Fatalf("期望 language=French，实际 %q", got)
	}
}

func TestKeys_FocusMovesBetweenDimensions(t *testing.T) {
	m := loadedModel(t)

	m = send(t, m, keyTab, keyRight)
	if got := m.State().Filters.Country; got != "USA" {
		t.Fatalf("tab 后应作用于 country，实际 %+v", m.State().Filters)
	}

	m = send(t, m, keyShiftTab, keyShiftTab, keyRight)
	if got := m.State().Filters.Genre; got != "Drama" {
		t.Fatalf("shift+tab 两次应回绕到 genre，实际 %+v", m.State().Filters)
	}
}

func TestView_EmptyAfterConflictingFilters(t *testing.T) {
	m := loadedModel(t)
	// language=English，country=France
	m = send(t, m, keyRight, keyTab, keyRight, keyRight)
	if m.State().View() != catalog.ViewEmpty {
		t.Fatalf("期望 empty，实际 %v (%+v)", m.State().View(), m.State().Filters)
	}
	if !strings.Contains(m.View(), catalog.EmptyMessage) {
		t.Fatalf("empty 视图应显示 %q", catalog.EmptyMessage)
	}
}

func TestKeys_Quit(t *testing.T) {
	m := loadedModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("q 应返回退出命令")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("期望 tea.QuitMsg")
	}
}

func TestView_GridShowsFallbacks(t *testing.T) {
	m := send(t, New(context.Background(), nil, ""), loadedMsg{ev: catalog.LoadSucceeded{Records: []domain.Movie{{ID: "9"}}}})
	out := m.View()
	for _, want := range []string{catalog.DefaultFallbackImage, "1 of 1 movies"} {
		if !strings.Contains(out, want) {
			t.Fatalf("网格视图缺少 %q：\n%s", want, out)
		}
	}
}

func TestView_CountMarksActiveFilters(t *testing.T) {
	m := loadedModel(t)
	out := m.View()
	if !strings.Contains(out, "2 of 2 movies") || strings.Contains(out, "(filtered)") {
		t.Fatalf("未过滤时计数行不正确：\n%s", out)
	}

	m = send(t, m, keyRight)
	if out := m.View(); !strings.Contains(out, "1 of 2 movies (filtered)") {
		t.Fatalf("过滤后计数行应标记 filtered：\n%s", out)
	}
}
