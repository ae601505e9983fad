package statusserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/componentkit/component"
	apperrors "github.com/kbukum/componentkit/errors"
	"github.com/kbukum/componentkit/manager"
	"github.com/kbukum/componentkit/observability"
	"github.com/kbukum/componentkit/version"
)

// ComponentView is one component as rendered by /components.
type ComponentView struct {
	manager.ComponentInfo
	Description string `json:"description,omitempty"`
}

// GraphView is the body of /graph.
type GraphView struct {
	ManagerID string                 `json:"manager_id"`
	State     manager.LifecycleState `json:"state"`
	Order     []string               `json:"order"`
	Levels    [][]string             `json:"levels"`
}

// HealthView is the body of /health.
type HealthView struct {
	*observability.ServiceHealth
	ManagerID string                 `json:"manager_id"`
	State     manager.LifecycleState `json:"state"`
	Timestamp string                 `json:"timestamp"`
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/components", s.handleComponents)
	s.engine.GET("/components/:name", s.handleComponent)
	s.engine.GET("/graph", s.handleGraph)
	s.engine.GET("/version", s.handleVersion)
	s.engine.NoRoute(func(c *gin.Context) {
		respondError(c, apperrors.NotFound("route", c.Request.URL.Path))
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx := c.Request.Context()
	sh := observability.NewServiceHealth(s.service, version.Get().Short())
	for _, info := range s.src.Components() {
		sh.AddComponent(s.componentHealth(ctx, info))
	}

	state := s.src.State()
	if state == manager.StateFailed && sh.Status == observability.HealthStatusUp {
		sh.Status = observability.HealthStatusDegraded
	}

	status := http.StatusOK
	if sh.Status == observability.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, HealthView{
		ServiceHealth: sh,
		ManagerID:     s.src.ID(),
		State:         state,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

// componentHealth asks Ready components that check themselves, and derives
// the rest from the lifecycle state.
func (s *Server) componentHealth(ctx context.Context, info manager.ComponentInfo) observability.Health {
	if info.State == component.StateReady {
		if inst, ok, _ := s.src.Get(info.Name); ok {
			if hc, ok := inst.(component.HealthChecker); ok {
				h := observability.FromComponent(hc.Health(ctx))
				if h.Name == "" {
					h.Name = info.Name
				}
				h.Details = map[string]string{"state": info.State.String()}
				return h
			}
		}
	}
	return observability.FromState(info.Name, info.State)
}

func (s *Server) handleComponents(c *gin.Context) {
	infos := s.src.Components()
	views := make([]ComponentView, 0, len(infos))
	for _, info := range infos {
		views = append(views, s.view(info))
	}
	respondOK(c, views)
}

func (s *Server) handleComponent(c *gin.Context) {
	name := c.Param("name")
	info, ok := s.src.Component(name)
	if !ok {
		respondError(c, apperrors.NotFound("component", name))
		return
	}
	respondOK(c, s.view(info))
}

func (s *Server) handleGraph(c *gin.Context) {
	levels, err := s.src.Levels()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, GraphView{
		ManagerID: s.src.ID(),
		State:     s.src.State(),
		Order:     s.src.Order(),
		Levels:    levels,
	})
}

func (s *Server) handleVersion(c *gin.Context) {
	respondOK(c, version.Get())
}

func (s *Server) view(info manager.ComponentInfo) ComponentView {
	v := ComponentView{ComponentInfo: info}
	if inst, ok, _ := s.src.Get(info.Name); ok {
		if d, ok := inst.(component.Describable); ok {
			v.Description = d.Describe().Details
		}
	}
	return v
}
