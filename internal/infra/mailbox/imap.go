// Package mailbox implements the inbox client over IMAP, reducing unread
// messages to the bounded previews the digest consumes.
package mailbox

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	_ "github.com/emersion/go-message/charset"

	"morning-brief/internal/domain/entity"
)

// Config holds the IMAP session parameters. The session is scoped to one
// folder and closed deterministically after each use.
type Config struct {
	// Host is the server address including port, e.g. "imap.gmail.com:993".
	Host     string
	Username string
	Password string
	Folder   string

	// SnippetMaxLen caps the plain-text preview of each message body.
	SnippetMaxLen int
}

// Client fetches unread mail over a TLS IMAP session. Each call dials a
// fresh session; nothing is kept open between runs.
type Client struct {
	config Config
}

// NewClient creates a mailbox client with the given configuration.
func NewClient(config Config) *Client {
	return &Client{config: config}
}

// Ping verifies the mailbox is usable: dial, authenticate, select the
// configured folder, log out. Used by the health probe; never fetches mail.
func (c *Client) Ping(ctx context.Context) error {
	session, err := c.dial()
	if err != nil {
		return err
	}
	defer c.logout(session)

	if _, err := session.Select(c.config.Folder, nil).Wait(); err != nil {
		return fmt.Errorf("select folder %q: %w", c.config.Folder, err)
	}
	return nil
}

// FetchUnread returns previews of unread messages received within the last
// sinceDays days. When more than limit messages match, the most recent
// limit messages are returned, preserving their original relative order.
func (c *Client) FetchUnread(ctx context.Context, sinceDays, limit int) ([]entity.EmailItem, error) {
	session, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer c.logout(session)

	if _, err := session.Select(c.config.Folder, nil).Wait(); err != nil {
		return nil, fmt.Errorf("select folder %q: %w", c.config.Folder, err)
	}

	since := time.Now().AddDate(0, 0, -sinceDays)
	searchData, err := session.Search(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   since,
	}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("search unread since %s: %w", since.Format("02-Jan-2006"), err)
	}

	seqNums := searchData.AllSeqNums()
	if len(seqNums) == 0 {
		return nil, nil
	}

	seqNums = limitTail(seqNums, limit)

	var seqSet imap.SeqSet
	seqSet.AddNum(seqNums...)

	msgs, err := session.Fetch(seqSet, &imap.FetchOptions{
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{{}},
	}).Collect()
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	// FETCH responses may arrive out of order; restore mailbox order.
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].SeqNum < msgs[j].SeqNum })

	items := make([]entity.EmailItem, 0, len(msgs))
	for _, msg := range msgs {
		items = append(items, c.toEmailItem(msg))
	}

	slog.Info("unread mail fetched",
		slog.Int("matched", len(searchData.AllSeqNums())),
		slog.Int("returned", len(items)))

	return items, nil
}

// limitTail keeps the last limit entries. SEARCH reports ascending
// sequence numbers, oldest first, so the tail holds the most recent
// messages in their original relative order.
func limitTail(seqNums []uint32, limit int) []uint32 {
	if limit > 0 && len(seqNums) > limit {
		return seqNums[len(seqNums)-limit:]
	}
	return seqNums
}

// toEmailItem reduces a fetched message to its digest preview.
func (c *Client) toEmailItem(msg *imapclient.FetchMessageBuffer) entity.EmailItem {
	item := entity.EmailItem{
		Sender:  "Unknown",
		Subject: "(no subject)",
		Date:    "Unknown",
	}

	if env := msg.Envelope; env != nil {
		if env.Subject != "" {
			item.Subject = env.Subject
		}
		if len(env.From) > 0 {
			item.Sender = formatAddress(env.From[0])
		}
		if !env.Date.IsZero() {
			item.Date = env.Date.Format("Mon, 02 Jan 2006 15:04:05 -0700")
		}
	}

	raw := msg.FindBodySection(&imap.FetchItemBodySection{})
	item.Snippet = ExtractSnippet(raw, c.config.SnippetMaxLen)

	return item
}

// formatAddress renders an IMAP address as "Name <mailbox@host>", or just
// the bare address when no display name is present.
func formatAddress(addr imap.Address) string {
	if addr.Name != "" {
		return fmt.Sprintf("%s <%s>", addr.Name, addr.Addr())
	}
	return addr.Addr()
}

func (c *Client) dial() (*imapclient.Client, error) {
	session, err := imapclient.DialTLS(c.config.Host, nil)
	if err != nil {
		return nil, fmt.Errorf("dial imap server %s: %w", c.config.Host, err)
	}

	if err := session.Login(c.config.Username, c.config.Password).Wait(); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}

	return session, nil
}

func (c *Client) logout(session *imapclient.Client) {
	if err := session.Logout().Wait(); err != nil {
		slog.Warn("imap logout failed", slog.Any("error", err))
		_ = session.Close()
	}
}
