package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule mounts user-facing routes under /api/v1.
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// AdminModule mounts routes under /admin/v1.
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// Modules may implement prioritizer to control mount order (lower first, default 100).
type prioritizer interface{ Priority() int }

func mountAPI(g *gin.RouterGroup, mods ...APIModule) {
	sort.SliceStable(mods, func(i, j int) bool { return priorityOf(mods[i]) < priorityOf(mods[j]) })
	for _, m := range mods {
		m.MountAPI(g)
	}
}

func mountAdmin(g *gin.RouterGroup, mods ...AdminModule) {
	sort.SliceStable(mods, func(i, j int) bool { return priorityOf(mods[i]) < priorityOf(mods[j]) })
	for _, m := range mods {
		m.MountAdmin(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
