package app

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"time"

	"graphics_monitor_bot/internal/domain/channel"
	"graphics_monitor_bot/internal/domain/graphic"
	idb "graphics_monitor_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// In-memory fakes for the repository and client interfaces. They return the
// same sentinel errors as the Postgres implementations so the services see
// identical behavior.

type fakeGraphicRepo struct {
	nextID  int64
	records map[int64]*graphic.Graphic

	// afterGet runs after a GetByMessage read returns its snapshot,
	// simulating a concurrent writer landing between read and write.
	afterGet func()
}

func newFakeGraphicRepo() *fakeGraphicRepo {
	return &fakeGraphicRepo{records: make(map[int64]*graphic.Graphic)}
}

// add seeds a record directly, bypassing the duplicate check.
func (r *fakeGraphicRepo) add(g *graphic.Graphic) *graphic.Graphic {
	r.nextID++
	g.ID = r.nextID
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
	r.records[g.ID] = g
	return g
}

func (r *fakeGraphicRepo) Create(_ context.Context, g *graphic.Graphic) error {
	for _, existing := range r.records {
		if existing.ChatID == g.ChatID && existing.MessageID == g.MessageID {
			return idb.ErrDuplicateGraphic
		}
	}
	r.add(g)
	return nil
}

// Reads hand out snapshots, mirroring the row scans of the real store:
// mutating a returned record must not change the stored one.
func snapshot(g *graphic.Graphic) *graphic.Graphic {
	cp := *g
	return &cp
}

func (r *fakeGraphicRepo) GetByID(_ context.Context, id int64) (*graphic.Graphic, error) {
	g, ok := r.records[id]
	if !ok {
		return nil, idb.ErrGraphicNotFound
	}
	return snapshot(g), nil
}

func (r *fakeGraphicRepo) GetByMessage(_ context.Context, chatID, messageID int64) (*graphic.Graphic, error) {
	for _, g := range r.records {
		if g.ChatID == chatID && g.MessageID == messageID {
			got := snapshot(g)
			if r.afterGet != nil {
				r.afterGet()
			}
			return got, nil
		}
	}
	return nil, idb.ErrGraphicNotFound
}

func (r *fakeGraphicRepo) GetByPromptMessageID(_ context.Context, promptMessageID int64) (*graphic.Graphic, error) {
	for _, g := range r.records {
		if g.PromptMessageID.Valid && g.PromptMessageID.Int64 == promptMessageID {
			return snapshot(g), nil
		}
	}
	return nil, idb.ErrGraphicNotFound
}

func (r *fakeGraphicRepo) Reschedule(_ context.Context, g *graphic.Graphic) error {
	stored, ok := r.records[g.ID]
	if !ok || stored.ReminderSent || stored.PendingApproval {
		return idb.ErrStaleGraphic
	}
	stored.DateLabel = g.DateLabel
	stored.EffectiveAt = g.EffectiveAt
	stored.ExpiryAt = g.ExpiryAt
	stored.ReminderAt = g.ReminderAt
	stored.ReminderSent = false
	stored.ReminderMessageID = sql.NullInt64{}
	stored.PendingApproval = false
	stored.PromptMessageID = sql.NullInt64{}
	stored.Unresolved = false
	return nil
}

func (r *fakeGraphicRepo) MarkReminderSent(_ context.Context, id int64, reminderMessageID sql.NullInt64) error {
	stored, ok := r.records[id]
	if !ok || stored.ReminderSent {
		return idb.ErrStaleGraphic
	}
	stored.ReminderSent = true
	stored.ReminderMessageID = reminderMessageID
	return nil
}

func (r *fakeGraphicRepo) MarkPendingApproval(_ context.Context, id, promptMessageID int64) error {
	stored, ok := r.records[id]
	if !ok || stored.PendingApproval {
		return idb.ErrStaleGraphic
	}
	stored.PendingApproval = true
	stored.PromptMessageID = sql.NullInt64{Int64: promptMessageID, Valid: true}
	return nil
}

func (r *fakeGraphicRepo) SetClassificationPrompt(_ context.Context, id, promptMessageID int64) error {
	stored, ok := r.records[id]
	if !ok || !stored.Unresolved {
		return idb.ErrStaleGraphic
	}
	stored.PromptMessageID = sql.NullInt64{Int64: promptMessageID, Valid: true}
	return nil
}

func (r *fakeGraphicRepo) MarkUnresolved(_ context.Context, id int64) error {
	stored, ok := r.records[id]
	if !ok {
		return idb.ErrGraphicNotFound
	}
	stored.DateLabel = sql.NullString{}
	stored.EffectiveAt = sql.NullTime{}
	stored.ExpiryAt = sql.NullTime{}
	stored.ReminderAt = sql.NullTime{}
	stored.ReminderSent = false
	stored.ReminderMessageID = sql.NullInt64{}
	stored.PendingApproval = false
	stored.PromptMessageID = sql.NullInt64{}
	stored.Unresolved = true
	return nil
}

func (r *fakeGraphicRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.records[id]; !ok {
		return idb.ErrGraphicNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeGraphicRepo) DeleteByChat(_ context.Context, chatID int64) (int64, error) {
	var removed int64
	for id, g := range r.records {
		if g.ChatID == chatID {
			delete(r.records, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeGraphicRepo) ListAll(_ context.Context) ([]*graphic.Graphic, error) {
	return r.sorted(func(*graphic.Graphic) bool { return true }), nil
}

func (r *fakeGraphicRepo) ListDueReminders(_ context.Context, now time.Time) ([]*graphic.Graphic, error) {
	return r.sorted(func(g *graphic.Graphic) bool {
		return g.ReminderAt.Valid && !g.ReminderAt.Time.After(now) && !g.ReminderSent && !g.Unresolved
	}), nil
}

func (r *fakeGraphicRepo) ListDueExpiries(_ context.Context, now time.Time) ([]*graphic.Graphic, error) {
	return r.sorted(func(g *graphic.Graphic) bool {
		return g.ExpiryAt.Valid && !g.ExpiryAt.Time.After(now) && !g.PendingApproval && !g.Unresolved
	}), nil
}

func (r *fakeGraphicRepo) ListKeys(_ context.Context) ([]graphic.Key, error) {
	keys := make([]graphic.Key, 0, len(r.records))
	for _, g := range r.records {
		keys = append(keys, g.Key())
	}
	return keys, nil
}

func (r *fakeGraphicRepo) sorted(match func(*graphic.Graphic) bool) []*graphic.Graphic {
	out := make([]*graphic.Graphic, 0, len(r.records))
	for _, g := range r.records {
		if match(g) {
			out = append(out, snapshot(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeChannelRepo struct {
	channels map[int64]*channel.MonitoredChannel
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{channels: make(map[int64]*channel.MonitoredChannel)}
}

func (r *fakeChannelRepo) Upsert(_ context.Context, ch *channel.MonitoredChannel) error {
	r.channels[ch.ChatID] = ch
	return nil
}

func (r *fakeChannelRepo) GetByChatID(_ context.Context, chatID int64) (*channel.MonitoredChannel, error) {
	ch, ok := r.channels[chatID]
	if !ok {
		return nil, idb.ErrChannelNotFound
	}
	return ch, nil
}

func (r *fakeChannelRepo) SetEnabled(_ context.Context, chatID int64, enabled bool) error {
	ch, ok := r.channels[chatID]
	if !ok {
		return idb.ErrChannelNotFound
	}
	ch.Enabled = enabled
	return nil
}

func (r *fakeChannelRepo) ListEnabled(_ context.Context) ([]*channel.MonitoredChannel, error) {
	out := make([]*channel.MonitoredChannel, 0)
	for _, ch := range r.channels {
		if ch.Enabled {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out, nil
}

type fakeAttachRepo struct {
	enabled map[int64]bool
}

func newFakeAttachRepo() *fakeAttachRepo {
	return &fakeAttachRepo{enabled: make(map[int64]bool)}
}

func (r *fakeAttachRepo) SetEnabled(_ context.Context, chatID int64, enabled bool) error {
	r.enabled[chatID] = enabled
	return nil
}

func (r *fakeAttachRepo) IsEnabled(_ context.Context, chatID int64) (bool, error) {
	return r.enabled[chatID], nil
}

func (r *fakeAttachRepo) ListEnabled(_ context.Context) ([]int64, error) {
	out := make([]int64, 0)
	for chatID, on := range r.enabled {
		if on {
			out = append(out, chatID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

type sentText struct {
	ChatID    int64
	MessageID int64 // the replied-to message for replies, the new id for sends
	Text      string
	Options   *telebot.SendOptions
}

type forwardCall struct {
	To, From, MessageID int64
}

// fakeTelegram records outbound calls and can fail selectively per message
// id, mirroring partial platform failures within one evaluator pass.
type fakeTelegram struct {
	nextID int64

	sends    []sentText
	replies  []sentText
	forwards []forwardCall
	deletes  []graphic.Key

	sendErr     error
	replyErrs   map[int64]error // keyed by replied-to message id
	forwardErrs map[int64]error // keyed by forwarded message id
	deleteErrs  map[int64]error // keyed by deleted message id

	admins   map[int64]bool // keyed by user id
	adminErr error

	// onReply runs before a reply is recorded, simulating work that lands
	// while an outbound call is in flight.
	onReply func()
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{
		nextID:      1000,
		replyErrs:   make(map[int64]error),
		forwardErrs: make(map[int64]error),
		deleteErrs:  make(map[int64]error),
		admins:      make(map[int64]bool),
	}
}

func (f *fakeTelegram) Send(chatID int64, text string, options *telebot.SendOptions) (int64, error) {
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	f.sends = append(f.sends, sentText{ChatID: chatID, MessageID: f.nextID, Text: text, Options: options})
	return f.nextID, nil
}

func (f *fakeTelegram) Reply(chatID, messageID int64, text string) (int64, error) {
	if f.onReply != nil {
		f.onReply()
	}
	if err := f.replyErrs[messageID]; err != nil {
		return 0, err
	}
	f.nextID++
	f.replies = append(f.replies, sentText{ChatID: chatID, MessageID: messageID, Text: text})
	return f.nextID, nil
}

func (f *fakeTelegram) Forward(toChatID, fromChatID, messageID int64) (int64, error) {
	if err := f.forwardErrs[messageID]; err != nil {
		return 0, err
	}
	f.nextID++
	f.forwards = append(f.forwards, forwardCall{To: toChatID, From: fromChatID, MessageID: messageID})
	return f.nextID, nil
}

func (f *fakeTelegram) Delete(chatID, messageID int64) error {
	if err := f.deleteErrs[messageID]; err != nil {
		return err
	}
	f.deletes = append(f.deletes, graphic.Key{ChatID: chatID, MessageID: messageID})
	return nil
}

func (f *fakeTelegram) IsAdmin(_, userID int64) (bool, error) {
	if f.adminErr != nil {
		return false, f.adminErr
	}
	return f.admins[userID], nil
}

func (f *fakeTelegram) deleted(chatID, messageID int64) bool {
	for _, k := range f.deletes {
		if k.ChatID == chatID && k.MessageID == messageID {
			return true
		}
	}
	return false
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
