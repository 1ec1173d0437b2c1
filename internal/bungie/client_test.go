package bungie

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"destiny2-go/internal/d2"
	"destiny2-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, apiKey string) (*Client, *testutil.RecordingLogger) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := testutil.NewRecordingLogger()
	c, err := NewClient(srv.Client(), srv.URL, apiKey, logger, logger, testutil.NewStubIDGenerator())
	require.NoError(t, err)
	return c, logger
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, code int, status string, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"Response":        payload,
		"ErrorCode":       code,
		"ThrottleSeconds": 0,
		"ErrorStatus":     status,
		"Message":         status,
		"MessageData":     map[string]string{},
	}))
}

func TestNewClient(t *testing.T) {
	t.Run("defaults to the public root", func(t *testing.T) {
		c, err := NewClient(nil, "", "", nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, c.BaseURL())
		assert.False(t, c.DeserializationDebugging())
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		c, err := NewClient(nil, "https://example.test/", "", nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://example.test", c.BaseURL())
	})

	t.Run("rejects relative url", func(t *testing.T) {
		_, err := NewClient(nil, "/just/a/path", "", nil, nil, nil)
		assert.Error(t, err)
	})
}

func TestClient_MethodURL(t *testing.T) {
	c, err := NewClient(nil, "https://example.test", "", nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/Platform/Destiny2/Manifest/", c.methodURL("Destiny2/Manifest"))
	assert.Equal(t, "https://example.test/Platform/Destiny2/Manifest/", c.methodURL("/Destiny2/Manifest/"))
	assert.Equal(t,
		"https://example.test/Platform/Destiny2/2/Profile/123/?components=100,200",
		c.methodURL("Destiny2/2/Profile/123", queryParam{name: "components", value: "100,200"}),
	)
}

func TestClient_GetManifest(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/Platform/Destiny2/Manifest/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		writeEnvelope(t, w, Success, "Success", map[string]any{
			"version": "123.45",
			"mobileWorldContentPaths": map[string]string{
				"en": "/common/destiny2_content/sqlite/en/world_sql_content_abc.content",
			},
		})
	}, "")

	m, err := c.GetManifest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "123.45", m.Version)
	assert.Equal(t, "/common/destiny2_content/sqlite/en/world_sql_content_abc.content", m.MobileWorldContentPaths["en"])
}

func TestClient_GetProfile(t *testing.T) {
	t.Run("defaults to the profiles component", func(t *testing.T) {
		var gotURI, gotAuth string
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotURI = r.URL.RequestURI()
			gotAuth = r.Header.Get("Authorization")
			writeEnvelope(t, w, Success, "Success", map[string]any{
				"profile": map[string]any{
					"privacy": 1,
					"data": map[string]any{
						"userInfo":     map[string]any{"membershipId": "123", "membershipType": 2, "displayName": "Guardian"},
						"characterIds": []string{"2305843009000000001"},
					},
				},
			})
		}, "")

		resp, err := c.GetProfile(context.Background(), "T", d2.MembershipPSN, 123)
		require.NoError(t, err)
		assert.Equal(t, "/Platform/Destiny2/2/Profile/123/?components=100", gotURI)
		assert.Equal(t, "Bearer T", gotAuth)
		require.NotNil(t, resp.Profile.Data)
		assert.Equal(t, int64(123), resp.Profile.Data.UserInfo.MembershipID)
		assert.Equal(t, "Guardian", resp.Profile.Data.UserInfo.DisplayName)
		assert.Equal(t, []string{"2305843009000000001"}, resp.Profile.Data.CharacterIDs)
	})

	t.Run("joins requested components", func(t *testing.T) {
		var gotQuery string
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			writeEnvelope(t, w, Success, "Success", map[string]any{})
		}, "")

		_, err := c.GetProfile(context.Background(), "T", d2.MembershipSteam, 42,
			d2.ComponentProfiles, d2.ComponentCharacters, d2.ComponentCharacterEquipment)
		require.NoError(t, err)
		assert.Equal(t, "components=100,200,205", gotQuery)
	})

	t.Run("error envelope yields no payload", func(t *testing.T) {
		c, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, DestinyAccountNotFound, "DestinyAccountNotFound", nil)
		}, "")

		resp, err := c.GetProfile(context.Background(), "T", d2.MembershipPSN, 1)
		assert.Nil(t, resp)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, DestinyAccountNotFound, apiErr.Code)
		assert.Equal(t, "DestinyAccountNotFound", apiErr.Status)

		code, ok := ErrorCode(err)
		assert.True(t, ok)
		assert.Equal(t, DestinyAccountNotFound, code)
		assert.False(t, IsTransport(err))

		warns := logger.ByLevel("WARN")
		require.Len(t, warns, 1)
		got, _ := warns[0].Attr("error_code")
		assert.Equal(t, DestinyAccountNotFound, got)
	})
}

func TestClient_CharacterAndItem(t *testing.T) {
	var uris []string
	var mu sync.Mutex
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		uris = append(uris, r.URL.RequestURI())
		mu.Unlock()
		switch {
		case strings.Contains(r.URL.Path, "/Character/"):
			writeEnvelope(t, w, Success, "Success", map[string]any{
				"character": map[string]any{"data": map[string]any{"characterId": "77", "light": 1810, "classType": 1}},
			})
		default:
			writeEnvelope(t, w, Success, "Success", map[string]any{
				"item": map[string]any{"data": map[string]any{"itemHash": 3655393761, "itemInstanceId": "99"}},
			})
		}
	}, "")

	ctx := context.Background()
	char, err := c.GetCharacterInfo(ctx, "T", d2.MembershipXbox, 5, 77, d2.ComponentCharacters)
	require.NoError(t, err)
	require.NotNil(t, char.Character.Data)
	assert.Equal(t, int64(77), char.Character.Data.CharacterID)
	assert.Equal(t, 1810, char.Character.Data.Light)

	item, err := c.GetItem(ctx, "T", d2.MembershipXbox, 5, 99, d2.ComponentItemInstances, d2.ComponentItemStats)
	require.NoError(t, err)
	require.NotNil(t, item.Item.Data)
	assert.Equal(t, d2.Hash(3655393761), item.Item.Data.ItemHash)
	assert.Equal(t, int64(99), item.Item.Data.ItemInstanceID)

	assert.Equal(t, []string{
		"/Platform/Destiny2/1/Profile/5/Character/77/?components=200",
		"/Platform/Destiny2/1/Profile/5/Item/99/?components=300,304",
	}, uris)
}

func TestClient_Headers(t *testing.T) {
	t.Run("api key sent when configured", func(t *testing.T) {
		var gotKey string
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("X-API-Key")
			writeEnvelope(t, w, Success, "Success", map[string]any{})
		}, "secret-key")

		_, err := c.GetManifest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "secret-key", gotKey)
	})

	t.Run("token does not leak into later calls", func(t *testing.T) {
		var auths []string
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			auths = append(auths, r.Header.Get("Authorization"))
			writeEnvelope(t, w, Success, "Success", map[string]any{})
		}, "")

		ctx := context.Background()
		_, err := c.GetProfile(ctx, "first", d2.MembershipPSN, 1)
		require.NoError(t, err)
		_, err = c.GetManifest(ctx)
		require.NoError(t, err)
		_, err = c.GetProfile(ctx, "second", d2.MembershipPSN, 1)
		require.NoError(t, err)

		assert.Equal(t, []string{"Bearer first", "", "Bearer second"}, auths)
	})

	t.Run("concurrent calls keep their own token", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			// /Platform/Destiny2/254/Profile/{id}/LinkedProfiles/
			parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
			id := parts[4]
			if r.Header.Get("Authorization") != "Bearer token-"+id {
				writeEnvelope(t, w, WebAuthRequired, "WebAuthRequired", nil)
				return
			}
			writeEnvelope(t, w, Success, "Success", map[string]any{
				"bnetMembership": map[string]any{"membershipId": id, "membershipType": 254},
			})
		}, "")

		const workers = 16
		var wg sync.WaitGroup
		errs := make([]error, workers)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := c.GetLinkedProfiles(context.Background(), "token-"+strconv.Itoa(i), int64(i), d2.MembershipBungieNext)
				if err == nil && resp.BnetMembership.MembershipID != int64(i) {
					err = fmt.Errorf("worker %d got membership %d", i, resp.BnetMembership.MembershipID)
				}
				errs[i] = err
			}()
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}
	})
}

func TestClient_EquipItem(t *testing.T) {
	var body map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Platform/Destiny2/Actions/Items/EquipItem/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeEnvelope(t, w, Success, "Success", 0)
	}, "")

	status, err := c.EquipItem(context.Background(), "T", d2.MembershipSteam, 77, 6917529000000000001)
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, float64(77), body["characterId"])
	assert.Equal(t, float64(d2.MembershipSteam), body["membershipType"])
	assert.Contains(t, body, "itemId")
}

func TestClient_EquipItems(t *testing.T) {
	t.Run("one result per item", func(t *testing.T) {
		var req equipItemsRequest
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/Platform/Destiny2/Actions/Items/EquipItems/", r.URL.Path)
			assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			results := make([]map[string]any, len(req.ItemIDs))
			for i, id := range req.ItemIDs {
				results[i] = map[string]any{"itemInstanceId": strconv.FormatInt(id, 10), "equipStatus": 1}
			}
			writeEnvelope(t, w, Success, "Success", map[string]any{"equipResults": results})
		}, "")

		items := []int64{11, 22, 33}
		results, err := c.EquipItems(context.Background(), "T", d2.MembershipPSN, 77, items)
		require.NoError(t, err)

		assert.Equal(t, items, req.ItemIDs)
		assert.Equal(t, int64(77), req.CharacterID)
		assert.Equal(t, d2.MembershipPSN, req.MembershipType)

		require.Len(t, results, len(items))
		for i, res := range results {
			assert.Equal(t, items[i], res.ItemInstanceID)
			assert.Equal(t, 1, res.EquipStatus)
		}
	})

	t.Run("numeric item ids", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, Success, "Success", map[string]any{
				"equipResults": []map[string]any{{"itemInstanceId": 11, "equipStatus": 1}},
			})
		}, "")

		results, err := c.EquipItems(context.Background(), "T", d2.MembershipPSN, 77, []int64{11})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, int64(11), results[0].ItemInstanceID)
	})

	t.Run("error envelope yields no results", func(t *testing.T) {
		c, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, WebAuthRequired, "WebAuthRequired", nil)
		}, "")

		results, err := c.EquipItems(context.Background(), "T", d2.MembershipPSN, 77, []int64{1, 2})
		assert.Nil(t, results)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, WebAuthRequired, apiErr.Code)
		assert.Equal(t, "WebAuthRequired", apiErr.Status)
		assert.False(t, IsTransport(err))
		assert.NotEmpty(t, logger.ByLevel("WARN"))
	})

	t.Run("http failure is a transport error", func(t *testing.T) {
		c, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}, "")

		results, err := c.EquipItems(context.Background(), "T", d2.MembershipPSN, 77, []int64{1})
		assert.Nil(t, results)

		var tErr *TransportError
		require.ErrorAs(t, err, &tErr)
		assert.Equal(t, http.StatusServiceUnavailable, tErr.StatusCode)
		assert.True(t, IsTransport(err))
		_, ok := ErrorCode(err)
		assert.False(t, ok)
		assert.NotEmpty(t, logger.ByLevel("ERROR"))
	})
}

func TestClient_TransportFailures(t *testing.T) {
	t.Run("non-2xx get", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, "")

		_, err := c.GetManifest(context.Background())
		var tErr *TransportError
		require.ErrorAs(t, err, &tErr)
		assert.Equal(t, http.StatusInternalServerError, tErr.StatusCode)
	})

	t.Run("canceled context", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, Success, "Success", map[string]any{})
		}, "")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.GetManifest(ctx)
		require.True(t, IsTransport(err))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClient_DecodeFailures(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		c, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"Response": {"version": `)
		}, "")
		c.SetDeserializationDebugging(true)

		m, err := c.GetManifest(context.Background())
		assert.Nil(t, m)
		var dErr *DecodeError
		require.ErrorAs(t, err, &dErr)
		assert.Equal(t, "Destiny2/Manifest", dErr.Method)

		traces := logger.ByLevel("TRACE")
		require.Len(t, traces, 1)
		assert.Equal(t, "malformed json", traces[0].Msg)
	})

	t.Run("type mismatch", func(t *testing.T) {
		c, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"Response": "not a number", "ErrorCode": 1}`)
		}, "")
		c.SetDeserializationDebugging(true)

		_, err := c.EquipItem(context.Background(), "T", d2.MembershipPSN, 1, 2)
		var dErr *DecodeError
		require.ErrorAs(t, err, &dErr)

		traces := logger.ByLevel("TRACE")
		require.Len(t, traces, 1)
		assert.Equal(t, "json type mismatch", traces[0].Msg)
		want, _ := traces[0].Attr("want")
		assert.Equal(t, "int", want)
	})

	t.Run("no traces when debugging is off", func(t *testing.T) {
		c, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `not json`)
		}, "")

		_, err := c.GetManifest(context.Background())
		var dErr *DecodeError
		require.True(t, errors.As(err, &dErr))
		assert.Empty(t, logger.ByLevel("TRACE"))
	})

	t.Run("unmodelled fields are traced", func(t *testing.T) {
		c, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"Response": {"version": "1"}, "ErrorCode": 1, "DetailedErrorTrace": ""}`)
		}, "")
		c.SetDeserializationDebugging(true)

		m, err := c.GetManifest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "1", m.Version)

		var msgs []string
		for _, e := range logger.ByLevel("TRACE") {
			msgs = append(msgs, e.Msg)
		}
		assert.Equal(t, []string{"decoded response", "response has unmodelled data"}, msgs)
	})
}

func TestSnippet(t *testing.T) {
	raw := []byte(strings.Repeat("a", 10) + "X" + strings.Repeat("b", 100))
	got := snippet(raw, 10)
	assert.Equal(t, string(raw[:10+traceSnippetRadius]), got)
	assert.Equal(t, "", snippet(nil, 5))
}
