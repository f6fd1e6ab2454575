// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

func call(method, path, token string, body any) (int, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(env.ctx, method, env.server.URL+path, reader)
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := env.server.Client().Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	out := map[string]any{}
	Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
	return resp.StatusCode, out
}

func register(username, first, last string) string {
	status, body := call(http.MethodPost, "/auth/register", "", map[string]string{
		"username":   username,
		"password":   username + "-pw",
		"first_name": first,
		"last_name":  last,
		"phone":      "+12015550123",
	})
	Expect(status).To(Equal(http.StatusCreated))
	return body["token"].(string)
}

func messageIDs(body map[string]any) []string {
	list := body["messages"].([]any)
	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.(map[string]any)["id"].(string))
	}
	return ids
}

var _ = Describe("Messaging over PostgreSQL", func() {
	var alice, bob, carol string

	BeforeEach(func() {
		env.truncate()
		alice = register("alice", "Alice", "Anderson")
		bob = register("bob", "Bob", "Baker")
		carol = register("carol", "Carol", "Clark")
	})

	Describe("registration and login", func() {
		It("rejects a duplicate username", func() {
			status, body := call(http.MethodPost, "/auth/register", "", map[string]string{
				"username": "alice", "password": "x", "first_name": "A", "last_name": "B", "phone": "+12015550123",
			})
			Expect(status).To(Equal(http.StatusConflict))
			Expect(body).To(HaveKey("error"))
		})

		It("issues a token for valid credentials and rejects bad ones uniformly", func() {
			status, body := call(http.MethodPost, "/auth/login", "", map[string]string{
				"username": "alice", "password": "alice-pw",
			})
			Expect(status).To(Equal(http.StatusOK))
			Expect(body["token"]).NotTo(BeEmpty())

			wrongPw, wrongBody := call(http.MethodPost, "/auth/login", "", map[string]string{
				"username": "alice", "password": "nope",
			})
			noUser, noUserBody := call(http.MethodPost, "/auth/login", "", map[string]string{
				"username": "nobody", "password": "nope",
			})
			Expect(wrongPw).To(Equal(http.StatusUnauthorized))
			Expect(noUser).To(Equal(http.StatusUnauthorized))
			Expect(wrongBody).To(Equal(noUserBody))
		})
	})

	Describe("the user directory", func() {
		It("lists users ordered by last name", func() {
			status, body := call(http.MethodGet, "/users", alice, nil)
			Expect(status).To(Equal(http.StatusOK))
			users := body["users"].([]any)
			Expect(users).To(HaveLen(3))
			var names []string
			for _, u := range users {
				names = append(names, u.(map[string]any)["username"].(string))
			}
			Expect(names).To(Equal([]string{"alice", "bob", "carol"}))
		})

		It("shows a profile only to its owner", func() {
			status, body := call(http.MethodGet, "/users/alice", alice, nil)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body["user"]).To(HaveKeyWithValue("phone", "+12015550123"))

			status, _ = call(http.MethodGet, "/users/alice", bob, nil)
			Expect(status).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("messages", func() {
		var id string

		BeforeEach(func() {
			status, body := call(http.MethodPost, "/messages", alice, map[string]string{
				"to_username": "bob", "body": "hello bob",
			})
			Expect(status).To(Equal(http.StatusCreated))
			msg := body["message"].(map[string]any)
			Expect(msg["from_username"]).To(Equal("alice"))
			Expect(msg["read_at"]).To(BeNil())
			id = msg["id"].(string)
		})

		It("is visible to sender and recipient only", func() {
			for _, token := range []string{alice, bob} {
				status, body := call(http.MethodGet, "/messages/"+id, token, nil)
				Expect(status).To(Equal(http.StatusOK))
				msg := body["message"].(map[string]any)
				Expect(msg["body"]).To(Equal("hello bob"))
				Expect(msg["from_user"]).To(HaveKeyWithValue("username", "alice"))
				Expect(msg["to_user"]).To(HaveKeyWithValue("username", "bob"))
			}

			status, _ := call(http.MethodGet, "/messages/"+id, carol, nil)
			Expect(status).To(Equal(http.StatusUnauthorized))
		})

		It("appears in both mailboxes", func() {
			status, body := call(http.MethodGet, "/users/alice/from", alice, nil)
			Expect(status).To(Equal(http.StatusOK))
			Expect(messageIDs(body)).To(Equal([]string{id}))

			status, body = call(http.MethodGet, "/users/bob/to", bob, nil)
			Expect(status).To(Equal(http.StatusOK))
			Expect(messageIDs(body)).To(Equal([]string{id}))

			status, body = call(http.MethodGet, "/users/carol/to", carol, nil)
			Expect(status).To(Equal(http.StatusOK))
			Expect(messageIDs(body)).To(BeEmpty())
		})

		It("lets only the recipient mark it read, once", func() {
			status, _ := call(http.MethodPost, "/messages/"+id+"/read", alice, nil)
			Expect(status).To(Equal(http.StatusUnauthorized))

			status, body := call(http.MethodPost, "/messages/"+id+"/read", bob, nil)
			Expect(status).To(Equal(http.StatusOK))
			first := body["message"].(map[string]any)["read_at"]
			Expect(first).NotTo(BeNil())

			status, body = call(http.MethodPost, "/messages/"+id+"/read", bob, nil)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body["message"].(map[string]any)["read_at"]).To(Equal(first))
		})

		It("rejects messages to unknown users", func() {
			status, _ := call(http.MethodPost, "/messages", alice, map[string]string{
				"to_username": "nobody", "body": "hi",
			})
			Expect(status).To(Equal(http.StatusNotFound))
		})

		It("returns 404 for an unknown id", func() {
			status, _ := call(http.MethodGet, "/messages/01ARZ3NDEKTSV4RRFFQ69G5FAV", alice, nil)
			Expect(status).To(Equal(http.StatusNotFound))
		})
	})
})
