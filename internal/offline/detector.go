// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package offline

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultProbeURL is requested to decide whether the network is reachable.
	DefaultProbeURL = "https://clients3.google.com/generate_204"

	// DefaultProbeTimeout bounds a single connectivity probe.
	DefaultProbeTimeout = 2 * time.Second
)

// Detector checks real network connectivity.
type Detector struct {
	probeURL string
	client   *http.Client
}

// NewDetector creates a detector probing probeURL (DefaultProbeURL when
// empty).
func NewDetector(probeURL string) *Detector {
	if probeURL == "" {
		probeURL = DefaultProbeURL
	}
	return &Detector{
		probeURL: probeURL,
		client:   &http.Client{Timeout: DefaultProbeTimeout},
	}
}

// IsOnline reports whether the probe URL answered. Offline mode always
// reports false without touching the network. Any HTTP response counts as
// online.
func (d *Detector) IsOnline(ctx context.Context) bool {
	if IsOfflineMode() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, d.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
