// Package circuitbreaker 保护非关键依赖(如Redis缓存)的熔断器
//
// 状态机:
//
//	CLOSED --连续失败达到阈值--> OPEN --冷却时间到--> HALF_OPEN
//	HALF_OPEN --探测成功--> CLOSED
//	HALF_OPEN --探测失败--> OPEN
//
// OPEN状态下Execute直接返回ErrOpenState,调用方走降级路径(例如直接查数据库)。
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/xiebiao/librarysystem/pkg/metrics"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpenState 熔断器打开,请求被拒绝
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断器配置
type Config struct {
	// FailureThreshold 连续失败多少次后打开,默认5
	FailureThreshold uint32
	// OpenTimeout OPEN状态持续时间,之后进入HALF_OPEN,默认30s
	OpenTimeout time.Duration
	// IsFailure 判断错误是否计为失败,默认所有非nil错误都计为失败
	// 缓存未命中这类"业务上正常"的错误应返回false
	IsFailure func(err error) bool
	// Now 时钟,测试时注入
	Now func() time.Time
}

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	name string
	cfg  Config

	mu                  sync.Mutex
	state               State
	consecutiveFailures uint32
	openedAt            time.Time
	probing             bool // HALF_OPEN下是否已有探测请求在执行
}

// New 创建熔断器
func New(name string, cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return err != nil }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	metrics.InitMetrics()
	cb := &CircuitBreaker{name: name, cfg: cfg}
	cb.reportState()
	return cb
}

// Execute 在熔断器保护下执行req
func (cb *CircuitBreaker) Execute(req func() error) error {
	if err := cb.before(); err != nil {
		metrics.CircuitBreakerRequests.WithLabelValues(cb.name, "rejected").Inc()
		return err
	}

	err := req()
	failed := cb.cfg.IsFailure(err)
	cb.after(failed)

	result := "success"
	if failed {
		result = "failure"
	}
	metrics.CircuitBreakerRequests.WithLabelValues(cb.name, result).Inc()
	return err
}

// State 当前状态(会推进OPEN→HALF_OPEN)
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.advance()
	return cb.state
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.advance()

	switch cb.state {
	case StateOpen:
		return ErrOpenState
	case StateHalfOpen:
		if cb.probing {
			return ErrOpenState
		}
		cb.probing = true
	}
	return nil
}

func (cb *CircuitBreaker) after(failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.probing = false
		if failed {
			cb.setState(StateOpen)
		} else {
			cb.setState(StateClosed)
		}
		return
	}

	if !failed {
		cb.consecutiveFailures = 0
		return
	}
	cb.consecutiveFailures++
	if cb.state == StateClosed && cb.consecutiveFailures >= cb.cfg.FailureThreshold {
		cb.setState(StateOpen)
	}
}

// advance 冷却时间到后OPEN切换为HALF_OPEN,调用方持有锁
func (cb *CircuitBreaker) advance() {
	if cb.state == StateOpen && !cb.cfg.Now().Before(cb.openedAt.Add(cb.cfg.OpenTimeout)) {
		cb.setState(StateHalfOpen)
	}
}

func (cb *CircuitBreaker) setState(state State) {
	if cb.state == state {
		return
	}
	cb.state = state
	cb.consecutiveFailures = 0
	cb.probing = false
	if state == StateOpen {
		cb.openedAt = cb.cfg.Now()
	}
	cb.reportState()
}

func (cb *CircuitBreaker) reportState() {
	metrics.CircuitBreakerState.WithLabelValues(cb.name).Set(float64(cb.state))
}
