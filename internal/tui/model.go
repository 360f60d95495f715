// Package tui is the terminal rendering surface of the storefront: the
// product grid, the assistant panel and the item flying to the cart badge.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/user/shopfront/internal/assistant"
	"github.com/user/shopfront/internal/catalog"
	"github.com/user/shopfront/internal/delivery"
	"github.com/user/shopfront/internal/storefront"
	"github.com/user/shopfront/internal/types"
)

const (
	Placeholder = "여행갈 때 입을 옷을 추천해줘"
	LoadingText = "어울리는 옷을 찾는 중입니다..."
	BannerText  = "추천된 옷을 확인하세요!"
	Heading     = "추천된 코디"
	CloseLabel  = "닫기"

	frameInterval = 33 * time.Millisecond
	imageCommand  = "/image "
	subscriberID  = types.SubscriberID("tui")
)

type snapshotMsg types.Snapshot

type frameMsg time.Time

// Model is the bubbletea model. Snapshots arrive through a one-slot
// mailbox so publishing never waits on the render loop.
type Model struct {
	store   *storefront.Storefront
	logger  *zap.Logger
	updates chan types.Snapshot
	styles  Styles

	snap     types.Snapshot
	input    textinput.Model
	spinner  spinner.Model
	category int
	products []catalog.Product
	image    []byte
	status   string
	failed   bool
	ticking  bool

	width  int
	height int
	scroll int
}

// New builds a Model subscribed to store. Call Close when the program
// exits.
func New(store *storefront.Storefront, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.Prompt = "› "
	ti.CharLimit = 512
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		store:   store,
		logger:  logger,
		updates: make(chan types.Snapshot, 1),
		styles:  DefaultStyles(),
		input:   ti,
		spinner: sp,
	}
	m.products, _ = store.Catalog.Products(catalog.All)
	store.Subscribe(subscriberID, delivery.Mailbox(m.updates))
	m.snap = <-m.updates
	return m
}

// Close detaches the model from the storefront.
func (m Model) Close() {
	m.store.Unsubscribe(subscriberID)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForSnapshot())
}

func (m Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-m.updates)
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) layout() layout {
	return layout{
		width:    m.width,
		height:   m.height,
		scroll:   m.scroll,
		expanded: m.snap.Expanded,
		results:  len(m.snap.Results),
		badge:    m.badge(),
	}
}

func (m Model) badge() string {
	return m.styles.Badge.Render(fmt.Sprintf("🛒 %d", m.snap.CartCount))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 8
		m.clampScroll()
		return m, nil

	case snapshotMsg:
		cmd := m.apply(types.Snapshot(msg))
		return m, tea.Batch(cmd, m.waitForSnapshot())

	case frameMsg:
		if m.snap.Flight == nil {
			m.ticking = false
			return m, nil
		}
		return m, frame()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply takes a newer snapshot and starts the frame ticker when a flight
// appears.
func (m *Model) apply(snap types.Snapshot) tea.Cmd {
	if snap.Seq < m.snap.Seq {
		return nil
	}
	m.snap = snap
	if snap.Expanded {
		m.input.Blur()
	} else if !m.input.Focused() {
		m.input.Focus()
	}
	if snap.Flight != nil && !m.ticking {
		m.ticking = true
		return frame()
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.category = (m.category + 1) % len(catalog.Categories)
		m.filter()
		return m, nil
	case "shift+tab":
		m.category = (m.category + len(catalog.Categories) - 1) % len(catalog.Categories)
		m.filter()
		return m, nil
	case "up", "pgup":
		m.scroll--
		m.clampScroll()
		return m, nil
	case "down", "pgdown":
		m.scroll++
		m.clampScroll()
		return m, nil
	case "ctrl+e":
		m.report(m.store.Session.Expand())
		return m, nil
	case "esc":
		if m.snap.Expanded {
			m.report(m.store.Session.Collapse())
		}
		return m, nil
	case "ctrl+k":
		if m.store.Flights.Cancel() {
			m.setStatus("담기를 취소했습니다", false)
		}
		return m, nil
	case "ctrl+x":
		m.image = nil
		m.setStatus("", false)
		return m, nil
	case "enter":
		if m.snap.Expanded {
			return m, nil
		}
		m.submit()
		return m, nil
	}

	if m.snap.Expanded {
		if k := msg.String(); len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			m.selectResult(int(k[0] - '1'))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() {
	text := strings.TrimSpace(m.input.Value())
	if strings.HasPrefix(text, imageCommand) {
		m.attach(strings.TrimSpace(strings.TrimPrefix(text, imageCommand)))
		m.input.Reset()
		return
	}

	q := assistant.NewQuery(text, m.image)
	if q.HasImage() && !q.IsImage() {
		m.setStatus(fmt.Sprintf("이미지가 아닙니다: %s", q.ImageType), true)
		return
	}
	id := m.store.Session.Submit(q)
	m.logger.Debug("submitted from terminal", zap.String("submission_id", string(id)))
	m.input.Reset()
	m.image = nil
	m.setStatus("", false)
}

func (m *Model) attach(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		m.setStatus(fmt.Sprintf("read image: %v", err), true)
		return
	}
	q := assistant.NewQuery("", data)
	if !q.IsImage() {
		m.setStatus(fmt.Sprintf("이미지가 아닙니다: %s", q.ImageType), true)
		return
	}
	m.image = data
	m.setStatus(fmt.Sprintf("이미지 첨부됨 (%s)", q.ImageType), false)
}

func (m *Model) selectResult(index int) {
	f, err := m.store.Session.SelectResult(index, m.layout())
	if err != nil {
		m.report(err)
		return
	}
	m.logger.Debug("result selected", zap.Int("index", index), zap.String("flight_id", string(f.ID)))
	m.setStatus("", false)
}

func (m *Model) filter() {
	products, err := m.store.Catalog.Products(catalog.Categories[m.category])
	if err != nil {
		m.report(err)
		return
	}
	m.products = products
	m.scroll = 0
}

func (m *Model) clampScroll() {
	rows := (len(m.products) + gridColumns - 1) / gridColumns
	last := rows - m.layout().gridRows()
	if m.scroll > last {
		m.scroll = last
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m *Model) report(err error) {
	if err == nil {
		m.setStatus("", false)
		return
	}
	m.setStatus(err.Error(), true)
}

func (m *Model) setStatus(s string, failed bool) {
	m.status, m.failed = s, failed
}
