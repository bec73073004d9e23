// Copyright 2026 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package diag

import "github.com/sirupsen/logrus"

// LogrusHandler is the default Handler, logging errors and warnings through
// a structured logrus.Logger instead of writing directly to stderr.
type LogrusHandler struct {
	Logger *logrus.Logger
}

// NewLogrusHandler builds a LogrusHandler. A nil logger falls back to
// logrus.StandardLogger().
func NewLogrusHandler(logger *logrus.Logger) *LogrusHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusHandler{Logger: logger}
}

func (h *LogrusHandler) Error(msg string, fatal bool) {
	h.Logger.WithField("fatal", fatal).Error(msg)
}

func (h *LogrusHandler) Warning(msg string) {
	h.Logger.Warn(msg)
}
