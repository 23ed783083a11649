package handler

import (
	"github.com/hitoshi/warbler/internal/auth"
	"github.com/hitoshi/warbler/internal/identity"
	"github.com/hitoshi/warbler/internal/message"
	"github.com/hitoshi/warbler/internal/metrics"
	"github.com/hitoshi/warbler/internal/socialgraph"
)

// サービス層の実装がハンドラーの要求するインターフェースを満たすことを
// コンパイル時に検証する。
var (
	_ SignupServiceInterface       = (*identity.Service)(nil)
	_ UserServiceInterface         = (*identity.Service)(nil)
	_ AuthServiceInterface         = (*auth.Service)(nil)
	_ FollowServiceInterface       = (*socialgraph.Service)(nil)
	_ RelationshipCheckerInterface = (*socialgraph.Service)(nil)
	_ MessageServiceInterface      = (*message.Service)(nil)
	_ MessageCounterInterface      = (*message.Service)(nil)
	_ AuthMetricsRecorder          = (*metrics.Collector)(nil)
	_ FollowMetricsRecorder        = (*metrics.Collector)(nil)
	_ MessageMetricsRecorder       = (*metrics.Collector)(nil)
)
