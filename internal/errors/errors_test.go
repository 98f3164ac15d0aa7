package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"testing"
	"time"
)

// fakeTimeoutErr simulates a net.Error with Timeout semantics (we don't need full net.Error here).
type fakeTimeoutErr struct{}

func (fakeTimeoutErr) Error() string { return "fake timeout" }
func (fakeTimeoutErr) Timeout() bool { return true }

func TestIsBalancerErrorClassification(t *testing.T) {
	root := stdErrors.New("root")
	wrapped := fmt.Errorf("adding context: %w", root)
	fe := NewForwardError("send.backend", wrapped)
	if !IsBalancerError(fe) {
		t.Fatalf("expected IsBalancerError=true for forward error")
	}
	if !stdErrors.Is(fe, root) {
		t.Fatalf("expected errors.Is to find root cause")
	}
	var ferr *ForwardError
	if !stdErrors.As(fe, &ferr) {
		t.Fatalf("expected errors.As to *ForwardError")
	}
	if ferr.Op != "send.backend" {
		t.Fatalf("unexpected op: %s", ferr.Op)
	}

	ck := NewCodecError("decode.gzip", nil)
	if !IsBalancerError(ck) {
		t.Fatalf("expected codec error classified as balancer error")
	}
	ra := NewReassemblyError("table.insert", nil)
	if !IsBalancerError(ra) {
		t.Fatalf("expected reassembly error classified as balancer error")
	}
	cfg := NewConfigError("validate.backends", stdErrors.New("bad address"))
	if !IsBalancerError(cfg) {
		t.Fatalf("expected config error classified")
	}
}

func TestIsTimeout(t *testing.T) {
	root := fakeTimeoutErr{}
	to := NewTimeoutError("evict.scan", 5*time.Second, root)
	if !IsTimeout(to) {
		t.Fatalf("expected TimeoutError recognized")
	}
	if IsBalancerError(to) {
		t.Fatalf("timeout should NOT be a balancer error")
	}
	if !IsTimeout(context.DeadlineExceeded) {
		t.Fatalf("expected context deadline recognized")
	}
	var ne error = root
	if !IsTimeout(ne) {
		t.Fatalf("expected net-like timeout recognized")
	}
}

func TestUnwrapChains(t *testing.T) {
	base := stdErrors.New("connection refused")
	l1 := fmt.Errorf("sendto: %w", base)
	l2 := NewForwardError("backend.send", l1)
	if !stdErrors.Is(l2, base) {
		t.Fatalf("errors.Is should reach base cause")
	}
	var bm balancerMarker
	if !stdErrors.As(l2, &bm) {
		t.Fatalf("expected to match balancerMarker via As")
	}
}

func TestNilSafety(t *testing.T) {
	if IsBalancerError(nil) {
		t.Fatalf("nil should not be a balancer error")
	}
	if IsTimeout(nil) {
		t.Fatalf("nil should not be timeout")
	}
}

func TestConstructorWithoutCause(t *testing.T) {
	ck := NewCodecError("decode.json", nil)
	if ck == nil {
		t.Fatalf("constructor returned nil")
	}
	if errStr := ck.Error(); errStr == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestNilErrBranchesAndStrings(t *testing.T) {
	c := NewCodecError("op1", nil)
	if c == nil {
		t.Fatalf("nil codec error")
	}
	if !IsBalancerError(c) {
		t.Fatalf("expected balancer classification")
	}
	if s := c.Error(); s == "" || s == "codec error:" {
		t.Fatalf("unexpected codec error string: %q", s)
	}

	r := NewReassemblyError("op2", nil)
	if s := r.Error(); s == "" || s == "reassembly error:" {
		t.Fatalf("bad reassembly error string: %q", s)
	}

	f := NewForwardError("op3", nil)
	if s := f.Error(); s == "" {
		t.Fatalf("empty forward error string")
	}

	cfg := NewConfigError("op4", nil)
	if s := cfg.Error(); s == "" {
		t.Fatalf("empty config error string")
	}

	to := NewTimeoutError("op5", 100*time.Millisecond, nil)
	if !IsTimeout(to) {
		t.Fatalf("timeout classification failed")
	}
	if IsBalancerError(to) {
		t.Fatalf("timeout misclassified as balancer error")
	}
	if s := to.Error(); s == "" {
		t.Fatalf("empty timeout error string")
	}
}

func TestNegativePredicates(t *testing.T) {
	if IsBalancerError(stdErrors.New("plain")) {
		t.Fatalf("plain error shouldn't be a balancer error")
	}
	if IsTimeout(stdErrors.New("plain")) {
		t.Fatalf("plain error shouldn't be timeout")
	}
}
