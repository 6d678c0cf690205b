// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments_WithReplies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/events/7/comments", r.URL.Path)
		writeJSON(w, http.StatusOK, []map[string]any{{
			"id":      1,
			"content": "See you there",
			"user":    map[string]any{"id": 5, "email": "visitor@example.com"},
			"replies": []map[string]any{{"id": 2, "content": "Same", "parentCommentId": 1}},
		}})
	})

	comments, err := c.Comments(context.Background(), testCred, 7)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "visitor@example.com", comments[0].Author())
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "Unknown", comments[0].Replies[0].Author())
	require.NotNil(t, comments[0].Replies[0].ParentID)
	assert.Equal(t, int64(1), *comments[0].Replies[0].ParentID)
}

func TestAddComment_Reply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, testCred, r.Header.Get("Cookie"))

		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Thanks!", in["content"])
		assert.EqualValues(t, 1, in["parentCommentId"])

		writeJSON(w, http.StatusCreated, map[string]any{"id": 3, "content": "Thanks!"})
	})

	parent := int64(1)
	got, err := c.AddComment(context.Background(), testCred, 7, CommentInput{Content: "Thanks!", ParentID: &parent})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
}

func TestAddComment_EmptyIsRejectedLocally(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	})

	_, err := c.AddComment(context.Background(), testCred, 7, CommentInput{})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, Message(err, ""), "content")
}

func TestLikes(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/events/7/likes":
			methods = append(methods, r.Method)
			w.WriteHeader(http.StatusOK)
		case "/api/events/7/likes/count":
			writeJSON(w, http.StatusOK, map[string]any{"likeCount": 12})
		case "/api/events/7/likes/status":
			writeJSON(w, http.StatusOK, true)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	require.NoError(t, c.Like(ctx, testCred, 7))
	require.NoError(t, c.Unlike(ctx, testCred, 7))
	assert.Equal(t, []string{http.MethodPost, http.MethodDelete}, methods)

	n, err := c.LikeCount(ctx, testCred, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	liked, err := c.Liked(ctx, testCred, 7)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestUpdateProfile_ReturnsStoredCopy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/profile/me", r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			var in map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "Dakar", in["city"])
			assert.NotContains(t, in, "phone", "empty fields are omitted")
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{
				"id":   3,
				"city": "Dakar",
				"user": map[string]any{"id": 5, "email": "visitor@example.com", "role": "ROLE_VISITOR"},
			})
		}
	})

	p, err := c.UpdateProfile(context.Background(), testCred, ProfileUpdate{City: "Dakar"})
	require.NoError(t, err)
	assert.Equal(t, "Dakar", p.City)
	assert.Equal(t, "visitor@example.com", p.User.Email)
}

func TestRecommendation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats/recommendation/timing/9", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"bestDay": "SATURDAY"})
	})

	rec, err := c.Recommendation(context.Background(), testCred, RecommendTiming, 9)
	require.NoError(t, err)
	assert.Equal(t, "SATURDAY", rec["bestDay"])
}

func TestEditAndDeleteComment(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/comments/4", r.URL.Path)
		assert.Equal(t, testCred, r.Header.Get("Cookie"))
		calls = append(calls, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	require.NoError(t, c.EditComment(ctx, testCred, 4, CommentInput{Content: "Edited"}))
	require.NoError(t, c.DeleteComment(ctx, testCred, 4))
	assert.Equal(t, []string{http.MethodPut, http.MethodDelete}, calls)
}
