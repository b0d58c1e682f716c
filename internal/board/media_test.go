/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryReleaseOnlyRemovesOwnHandle(t *testing.T) {
	r := NewMediaRegistry()
	first := &fakeHandle{}
	second := &fakeHandle{}

	releaseFirst := r.Register(7, first)
	r.Register(7, second)
	releaseFirst()

	h, ok := r.Lookup(7)
	assert.True(t, ok)
	assert.Same(t, second, h)

	r.Release(7)
	_, ok = r.Lookup(7)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}
