package resp

import "strconv"

// AppendCommand appends args to dst as a RESP array of bulk strings.
//
//	AppendCommand(nil, "QS.GET", "ports", "443")
//	=> "*3\r\n$6\r\nQS.GET\r\n$5\r\nports\r\n$3\r\n443\r\n"
func AppendCommand(dst []byte, args ...string) []byte {
	dst = append(dst, '*')
	dst = strconv.AppendInt(dst, int64(len(args)), 10)
	dst = append(dst, '\r', '\n')
	for _, a := range args {
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(a)), 10)
		dst = append(dst, '\r', '\n')
		dst = append(dst, a...)
		dst = append(dst, '\r', '\n')
	}
	return dst
}
