package handlers

import (
	"context"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/httpresp"
)

// OnlineUsers is the local view of the session table.
type OnlineUsers interface {
	Online() []string
}

// ClusterPresence lists online users across every server instance.
type ClusterPresence interface {
	Cluster(ctx context.Context) (map[string]string, error)
}

type AdminHandler struct {
	db        *gorm.DB
	sessions  OnlineUsers
	cluster   ClusterPresence
	connCount func() int
}

// NewAdminHandler builds the admin endpoints. cluster may be nil when
// the server runs without Redis.
func NewAdminHandler(
	db *gorm.DB,
	sessions OnlineUsers,
	cluster ClusterPresence,
	connCount func() int,
) *AdminHandler {
	return &AdminHandler{
		db:        db,
		sessions:  sessions,
		cluster:   cluster,
		connCount: connCount,
	}
}

func (h *AdminHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		apperr.Unavailable(c, "database_unavailable", "Database is not reachable.")
		return
	}

	conns := 0
	if h.connCount != nil {
		conns = h.connCount()
	}

	httpresp.OK(c, gin.H{
		"status":      "ok",
		"connections": conns,
		"online":      len(h.sessions.Online()),
	})
}

type sessionView struct {
	UserID   string `json:"user_id"`
	Instance string `json:"instance,omitempty"`
}

func (h *AdminHandler) Sessions(c *gin.Context) {
	if h.cluster != nil && c.Query("scope") == "cluster" {
		all, err := h.cluster.Cluster(c.Request.Context())
		if err != nil {
			apperr.Internal(c, "presence_unavailable", "Could not read cluster presence.")
			return
		}

		out := make([]sessionView, 0, len(all))
		for user, instance := range all {
			out = append(out, sessionView{UserID: user, Instance: instance})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
		httpresp.List(c, out)
		return
	}

	local := h.sessions.Online()
	out := make([]sessionView, 0, len(local))
	for _, user := range local {
		out = append(out, sessionView{UserID: user})
	}
	httpresp.List(c, out)
}
