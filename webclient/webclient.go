// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package webclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
)

const maxRetries = 3

func ParseJsonResponse(resp *http.Response, v any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("query returned error code %d (%s)", resp.StatusCode, b)
	}

	m, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || m != "application/json" {
		return fmt.Errorf("invalid content type %s", resp.Header.Get("Content-Type"))
	}

	if err = json.NewDecoder(resp.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// GetJson performs a rate limited GET request and decodes the json body
// into v. Throttled responses are retried a few times before giving up.
func GetJson(ctx context.Context, client *http.Client, limiter *RateLimiter, url string, v any) error {
	for retries := 0; retries < maxRetries; retries++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		retry, err := limiter.HandleResponseHeadersWithWait(ctx, resp)
		if err != nil {
			resp.Body.Close()
			return err
		}
		if retry {
			resp.Body.Close()
			continue
		}
		err = ParseJsonResponse(resp, v)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("query %s failed: too many throttled retries", url)
}
