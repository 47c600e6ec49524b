// Package httpclient provides a configurable HTTP client with built-in
// authentication, retry, and multipart upload support. It is the transport
// layer used by the transcription backends.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/v1/audio/transcriptions",
//	    Body:   &httpclient.MultipartBody{...},
//	})
package httpclient
