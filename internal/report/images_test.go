package report

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preop-assessment-server/internal/domain"
)

func encodeTestImage(t *testing.T, encode func(*bytes.Buffer, image.Image) error) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func testJPEG(t *testing.T) string {
	return encodeTestImage(t, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, nil)
	})
}

func testPNG(t *testing.T) string {
	return encodeTestImage(t, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})
}

func TestDecodeAttachment(t *testing.T) {
	t.Run("JPEG_Payload", func(t *testing.T) {
		att, err := decodeAttachment("a", testJPEG(t))
		require.NoError(t, err)
		assert.Equal(t, "JPG", att.kind)
		assert.Equal(t, 8.0, att.width)
		assert.Equal(t, 8.0, att.height)
	})

	t.Run("PNG_With_Data_URI_Prefix", func(t *testing.T) {
		att, err := decodeAttachment("a", "data:image/png;base64,"+testPNG(t))
		require.NoError(t, err)
		assert.Equal(t, "PNG", att.kind)
	})

	t.Run("Malformed_Base64", func(t *testing.T) {
		_, err := decodeAttachment("a", "!!not base64 at all!!")
		assert.ErrorIs(t, err, domain.ErrUndecodableImage)
	})

	t.Run("Valid_Base64_Not_An_Image", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte("plain text bytes"))
		_, err := decodeAttachment("a", payload)
		assert.ErrorIs(t, err, domain.ErrUndecodableImage)
	})
}

func TestAttachmentsSkipsBadPayload(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.WarnLevel)

	doc := NewDoc(logger)
	c := doc.Start()

	payloads := []string{testJPEG(t), "%%%broken%%%"}
	doc.Attachments(c, payloads, []string{"aspirin", "metformin"})

	out, err := doc.Output()
	require.NoError(t, err, "bad payload must not poison the document")
	assert.Equal(t, "%PDF", string(out[:4]))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 1, hook.LastEntry().Data["index"])
}

func TestConsentPage(t *testing.T) {
	doc := NewDoc(testLogger())
	c := doc.Start()
	doc.Paragraph(c, "body", false)

	end := doc.ConsentPage(domain.ConsentData{
		Present:    true,
		SignedName: "Jane Roe",
		Signature:  testPNG(t),
	}, mustDate(t, "2026-03-01"))

	assert.Equal(t, 2, end.Page)
	assert.Equal(t, 2, doc.PageCount())

	_, err := doc.Output()
	require.NoError(t, err)
}
