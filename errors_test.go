// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringpipe_test

import (
	"errors"
	"fmt"
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/ringpipe"
)

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("reserve: %w", ringpipe.ErrWouldBlock)
	violation := fmt.Errorf("check: %w", ringpipe.ErrProtocolViolation)

	tests := []struct {
		name       string
		err        error
		wouldBlock bool
		nonFailure bool
	}{
		{"nil", nil, false, true},
		{"ErrWouldBlock", ringpipe.ErrWouldBlock, true, true},
		{"iox.ErrWouldBlock", iox.ErrWouldBlock, true, true},
		{"wrapped ErrWouldBlock", wrapped, true, true},
		{"ErrProtocolViolation", violation, false, false},
		{"other", errors.New("boom"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ringpipe.IsWouldBlock(tt.err); got != tt.wouldBlock {
				t.Fatalf("IsWouldBlock: got %v, want %v", got, tt.wouldBlock)
			}
			if got := ringpipe.IsNonFailure(tt.err); got != tt.nonFailure {
				t.Fatalf("IsNonFailure: got %v, want %v", got, tt.nonFailure)
			}
		})
	}

	if !ringpipe.IsSemantic(ringpipe.ErrWouldBlock) {
		t.Fatal("IsSemantic(ErrWouldBlock): got false, want true")
	}
	if ringpipe.IsSemantic(violation) {
		t.Fatal("IsSemantic(ErrProtocolViolation): got true, want false")
	}
}
