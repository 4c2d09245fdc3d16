package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"topic-pulse/internal/gateway"
)

// fakeProxy serves canned listing and reply bodies keyed by source or item path.
type fakeProxy struct {
	mu      sync.Mutex
	lists   map[string]string
	replies map[string]string
	fail    map[string]error
	hang    map[string]bool
	calls   []gateway.Request
}

func newFakeProxy() *fakeProxy {
	return &fakeProxy{
		lists:   map[string]string{},
		replies: map[string]string{},
		fail:    map[string]error{},
		hang:    map[string]bool{},
	}
}

func (f *fakeProxy) Get(ctx context.Context, req gateway.Request) ([]byte, error) {
	key := req.Source
	if req.Mode == gateway.ModeReplies {
		key = req.ItemPath
	}
	f.mu.Lock()
	f.calls = append(f.calls, req)
	hang := f.hang[key]
	err, failed := f.fail[key]
	var body string
	var ok bool
	if req.Mode == gateway.ModeList {
		body, ok = f.lists[key]
	} else {
		body, ok = f.replies[key]
	}
	f.mu.Unlock()

	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if failed {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("gateway: upstream status %d", http.StatusNotFound)
	}
	return []byte(body), nil
}

func (f *fakeProxy) callCount(mode gateway.Mode) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Mode == mode {
			n++
		}
	}
	return n
}

type testPost struct {
	ID     string
	Title  string
	Body   string
	Score  int
	Pinned bool
	NSFW   bool
}

func permalink(sub, id string) string {
	return fmt.Sprintf("/r/%s/comments/%s/post/", sub, id)
}

func listingBody(sub string, posts ...testPost) string {
	children := make([]map[string]any, 0, len(posts))
	for _, p := range posts {
		children = append(children, map[string]any{
			"kind": "t3",
			"data": map[string]any{
				"id":        p.ID,
				"title":     p.Title,
				"selftext":  p.Body,
				"permalink": permalink(sub, p.ID),
				"score":     p.Score,
				"subreddit": sub,
				"stickied":  p.Pinned,
				"over_18":   p.NSFW,
			},
		})
	}
	b, _ := json.Marshal(map[string]any{"kind": "Listing", "data": map[string]any{"children": children}})
	return string(b)
}

func repliesBody(scores ...int) string {
	children := make([]map[string]any, 0, len(scores)+1)
	for _, s := range scores {
		children = append(children, map[string]any{
			"kind": "t1",
			"data": map[string]any{"body": fmt.Sprintf("reply %d", s), "score": s},
		})
	}
	children = append(children, map[string]any{"kind": "more", "data": map[string]any{"count": 40}})
	b, _ := json.Marshal([]any{
		map[string]any{"kind": "Listing", "data": map[string]any{"children": []any{}}},
		map[string]any{"kind": "Listing", "data": map[string]any{"children": children}},
	})
	return string(b)
}
