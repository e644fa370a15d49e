package constant

const MAX_FILE_SIZE = 4 * 1024 * 1024
