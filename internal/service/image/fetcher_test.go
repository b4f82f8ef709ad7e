package image_test

import (
	imagesvc "AssistGateway/internal/service/image"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Fetcher", func() {
	var (
		fetcher *imagesvc.Fetcher
		ctx     context.Context
		img     []byte
	)

	BeforeEach(func() {
		fetcher = imagesvc.NewFetcher(time.Second, 1<<20)
		ctx = context.Background()
		img = pngBytes(4, 4)
	})

	It("decodes a base64 data URL", func() {
		ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
		got, err := fetcher.Fetch(ctx, ref)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Data).To(Equal(img))
		Expect(got.MIMEType).To(Equal("image/png"))
	})

	It("rejects a data URL without a comma", func() {
		_, err := fetcher.Fetch(ctx, "data:image/png;base64")
		Expect(err).To(MatchError(ContainSubstring("malformed data URL")))
	})

	Context("over HTTP", func() {
		var srv *httptest.Server

		BeforeEach(func() {
			srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/cat.png":
					w.Header().Set("Content-Type", "image/png")
					_, _ = w.Write(img)
				case "/untyped":
					w.Header().Set("Content-Type", "application/octet-stream")
					_, _ = w.Write(img)
				case "/huge":
					_, _ = w.Write(make([]byte, 2<<20))
				default:
					http.NotFound(w, r)
				}
			}))
			DeferCleanup(srv.Close)
		})

		It("downloads the image", func() {
			got, err := fetcher.Fetch(ctx, srv.URL+"/cat.png")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Data).To(Equal(img))
			Expect(got.MIMEType).To(Equal("image/png"))
		})

		It("sniffs the type when the server does not declare an image", func() {
			got, err := fetcher.Fetch(ctx, srv.URL+"/untyped")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.MIMEType).To(Equal("image/png"))
		})

		It("fails on a non-2xx status", func() {
			_, err := fetcher.Fetch(ctx, srv.URL+"/missing.png")
			Expect(err).To(MatchError(ContainSubstring("status=404")))
		})

		It("enforces the size limit", func() {
			_, err := fetcher.Fetch(ctx, srv.URL+"/huge")
			Expect(err).To(MatchError(imagesvc.ErrTooLarge))
		})

		It("refuses a loopback host when private networks are off", func() {
			public := imagesvc.NewPublicFetcher(time.Second, 1<<20)
			_, err := public.Fetch(ctx, srv.URL+"/cat.png")
			Expect(err).To(MatchError(imagesvc.ErrRefNotAllowed))
		})

		It("honours a cancelled context", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := fetcher.Fetch(cancelled, srv.URL+"/cat.png")
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	It("reads a local file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "local.png")
		Expect(os.WriteFile(path, img, 0o644)).To(Succeed())

		got, err := fetcher.Fetch(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Data).To(Equal(img))
	})

	Context("with local files refused", func() {
		var (
			public *imagesvc.Fetcher
			path   string
		)

		BeforeEach(func() {
			public = imagesvc.NewFetcher(time.Second, 1<<20, imagesvc.WithLocalFiles(false))
			path = filepath.Join(GinkgoT().TempDir(), ".env")
			Expect(os.WriteFile(path, []byte("AI_API_KEY=sk-secret"), 0o600)).To(Succeed())
		})

		DescribeTable("refuses the reference",
			func(ref func() string) {
				got, err := public.Fetch(ctx, ref())
				Expect(err).To(MatchError(imagesvc.ErrRefNotAllowed))
				Expect(got.Data).To(BeEmpty())
			},
			Entry("plain path", func() string { return path }),
			Entry("file URL", func() string { return "file://" + path }),
			Entry("relative path", func() string { return ".env" }),
		)

		It("still decodes data URLs", func() {
			ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
			got, err := public.Fetch(ctx, ref)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Data).To(Equal(img))
		})
	})

	It("fails on an empty reference", func() {
		_, err := fetcher.Fetch(ctx, "   ")
		Expect(err).To(HaveOccurred())
	})
})
