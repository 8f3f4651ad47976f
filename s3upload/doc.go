// Package s3upload implements the presigned multipart upload protocol the
// Multinet API exposes under s3-upload/.
//
// An upload runs in four steps:
//
//  1. initialize: the API returns an upload signature and one presigned
//     URL per part
//  2. parts: each byte range is PUT directly to object storage, concurrently
//     and with retries
//  3. complete: the API returns a completion document that is posted to
//     object storage
//  4. finalize: the API returns the field value, an opaque reference that
//     other endpoints accept in place of the file
//
// Credentials added through WithRequestEditor are only sent to the API,
// never to the presigned storage URLs.
package s3upload
