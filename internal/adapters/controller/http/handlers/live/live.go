package live

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/Badsnus/campus-hub/cmd/server"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/middlewares"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/response"
	"github.com/Badsnus/campus-hub/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-hub/internal/domain/binding"
	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/pkg/changefeed"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

const (
	queryLocal   = "live_query"
	tableLocal   = "live_table"
	sessionLocal = "live_session"
)

type access int

const (
	// public rows are visible to every signed in user.
	public access = iota
	// owned rows carry a user_id and are only streamed to that user.
	owned
	// self rows are the user profiles: documents of the caller only.
	self
)

type queryable interface {
	SetQuery(ctx context.Context, q dto.Query)
	Close()
}

type addressable interface {
	SetID(ctx context.Context, id string)
	Close()
}

type sender func(message)

type table struct {
	access     access
	collection func(ctx context.Context, send sender, q dto.Query) queryable
	document   func(send sender) addressable
}

// message is one state frame pushed to the client.
type message struct {
	Data    any    `json:"data"`
	Exists  *bool  `json:"exists,omitempty"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// request is what a client sends to change a running stream.
type request struct {
	ID      *string        `json:"id"`
	Filters map[string]any `json:"filters"`
	Order   *dto.Order     `json:"order"`
	Limit   int            `json:"limit"`
}

type Handler struct {
	tables map[string]table
	logger *types.Logger
}

func New(s *server.Server) *Handler {
	return &Handler{
		tables: map[string]table{
			"events":        newTable[entity.Event](public, s.DB, s.Feed, s.Logger),
			"clubs":         newTable[entity.Club](public, s.DB, s.Feed, s.Logger),
			"comments":      newTable[entity.Comment](public, s.DB, s.Feed, s.Logger),
			"registrations": newTable[entity.Registration](owned, s.DB, s.Feed, s.Logger),
			"reminders":     newTable[entity.Reminder](owned, s.DB, s.Feed, s.Logger),
			"notifications": newTable[entity.Notification](owned, s.DB, s.Feed, s.Logger),
			"users":         newTable[entity.User](self, s.DB, s.Feed, s.Logger),
		},
		logger: s.Logger,
	}
}

func newTable[T any](a access, db *gorm.DB, feed changefeed.Feed, log *types.Logger) table {
	source := postgres.NewTable[T](db)
	name := source.Name()
	return table{
		access: a,
		collection: func(ctx context.Context, send sender, q dto.Query) queryable {
			c := binding.NewCollection[T](source, feed, q, log)
			c.OnUpdate(func(state binding.State[T]) {
				send(message{Data: state.Data, Loading: state.Loading, Error: errText(state.Err)})
			})
			c.Start(ctx)
			return c
		},
		document: func(send sender) addressable {
			d := binding.NewDocument[T](source, feed, name, log)
			d.OnUpdate(func(state binding.DocState[T]) {
				send(message{Data: state.Data, Exists: state.Exists, Loading: state.Loading, Error: errText(state.Err)})
			})
			return d
		},
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Upgrade resolves the table and the initial query before the connection is
// upgraded, so bad requests still get a JSON error.
func (h Handler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	name := c.Params("table")
	t, ok := h.tables[name]
	if !ok {
		return response.HandleError(c, fiber.StatusNotFound, "Unknown table", errorz.ErrNotFound)
	}

	session := middlewares.Session(c)
	id := c.Params("id")
	if id == "" && t.access == self && !session.IsAdmin() {
		return response.HandleError(c, fiber.StatusForbidden, "Insufficient permissions", errorz.Forbidden)
	}
	if id != "" && !canWatchRow(t.access, session, id) {
		return response.HandleError(c, fiber.StatusForbidden, "Insufficient permissions", errorz.Forbidden)
	}

	c.Locals(tableLocal, name)
	c.Locals(sessionLocal, session)
	c.Locals(queryLocal, scope(t.access, session, queryFromParams(name, c.Queries())))
	return c.Next()
}

func canWatchRow(a access, session dto.Session, id string) bool {
	switch a {
	case public:
		return true
	case self:
		return session.IsAdmin() || session.UserID == id
	default:
		return session.IsAdmin()
	}
}

// scope pins owned tables to the caller.
func scope(a access, session dto.Session, q dto.Query) dto.Query {
	if a != owned || session.IsAdmin() {
		return q
	}
	filters := make(map[string]any, len(q.Filters)+1)
	for column, value := range q.Filters {
		filters[column] = value
	}
	filters["user_id"] = session.UserID
	q.Filters = filters
	return q
}

func queryFromParams(name string, params map[string]string) dto.Query {
	q := dto.Query{Table: name, Filters: map[string]any{}}
	for key, value := range params {
		switch key {
		case "token", "asc":
		case "order":
			q.Order = &dto.Order{Column: value}
		case "limit":
			q.Limit, _ = strconv.Atoi(value)
		default:
			q.Filters[key] = filterValue(value)
		}
	}
	if q.Order != nil && params["asc"] != "" {
		if asc, err := strconv.ParseBool(params["asc"]); err == nil {
			q.Order.Ascending = &asc
		}
	}
	return q
}

func filterValue(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	default:
		return value
	}
}

func (h Handler) stream(conn *websocket.Conn) {
	name, _ := conn.Locals(tableLocal).(string)
	q, _ := conn.Locals(queryLocal).(dto.Query)
	session, _ := conn.Locals(sessionLocal).(dto.Session)
	t := h.tables[name]
	id := conn.Params("id")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// bindings push from their own goroutine, errors are pushed from this one
	var writeMu sync.Mutex
	send := func(m message) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(m); err != nil {
			h.logger.Debugf("write to %s stream failed: %v", name, err)
		}
	}

	var (
		collection queryable
		document   addressable
	)
	if id == "" {
		collection = t.collection(ctx, send, q)
		defer collection.Close()
	} else {
		document = t.document(send)
		defer document.Close()
		document.SetID(ctx, id)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			h.logger.Debugf("%s stream closed: %v", name, err)
			return
		}
		var req request
		if err = json.Unmarshal(raw, &req); err != nil {
			send(message{Error: "invalid request"})
			continue
		}

		if document != nil {
			if req.ID == nil {
				continue
			}
			if *req.ID != "" && !canWatchRow(t.access, session, *req.ID) {
				send(message{Error: errorz.Forbidden.Error()})
				continue
			}
			document.SetID(ctx, *req.ID)
			continue
		}

		next := dto.Query{Table: name, Filters: req.Filters, Order: req.Order, Limit: req.Limit}
		collection.SetQuery(ctx, scope(t.access, session, next))
	}
}

func (h Handler) Setup(router fiber.Router) {
	group := router.Group("/live")
	group.Get("/:table", h.Upgrade, websocket.New(h.stream))
	group.Get("/:table/:id", h.Upgrade, websocket.New(h.stream))
}
